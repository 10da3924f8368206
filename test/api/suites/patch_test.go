/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/placeholder-api-tests/test/api"
)

var _ = Describe("Method PATCH", func() {
	Context("When partially updating a post", func() {
		Describe("Given the fixture defaults", func() {
			It("should change the title and keep the other fields", func(ctx SpecContext) {
				postID := scenario("validPostIds")[0]

				resp, payload, err := client.PatchPost(ctx, postID, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				post, err := resp.Object()
				Expect(err).NotTo(HaveOccurred())
				Expect(post).To(HaveKeyWithValue("title", payload.Title()))
				Expect(post).To(HaveKeyWithValue("id", BeNumerically("==", postID)))

				// And: untouched fields are still present
				Expect(post).To(HaveKey("userId"))
				Expect(post).To(HaveKey("body"))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given only a body", func() {
			It("should echo the body verbatim", func(ctx SpecContext) {
				postID := scenario("validPostIds")[1]

				resp, _, err := client.PatchPost(ctx, postID, map[string]any{
					"body": "Only the body field is updated",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				Expect(resp.Get("body").String()).To(Equal("Only the body field is updated"))
				Expect(resp.Get("id").Int()).To(BeEquivalentTo(postID))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given different fields per post", func() {
			It("should apply each patch", func(ctx SpecContext) {
				postIDs := scenario("validPostIds")[:3]

				patches := []map[string]any{
					{"title": "Patched Title 1"},
					{"body": "Patched Body 2"},
					{"title": "Patched Title 3", "body": "Patched Body 3"},
				}

				for i, postID := range postIDs {
					resp, _, err := client.PatchPost(ctx, postID, patches[i])
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusOK))

					if title, ok := patches[i]["title"]; ok {
						Expect(resp.Get("title").String()).To(ContainSubstring(title.(string)))
					}

					if body, ok := patches[i]["body"]; ok {
						Expect(resp.Get("body").String()).To(Equal(body))
					}
				}
			}, SpecTimeout(config.TestTimeout))
		})
	})
})
