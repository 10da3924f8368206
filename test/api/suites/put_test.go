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
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/placeholder-api-tests/test/api"
)

var _ = Describe("Method PUT", func() {
	Context("When replacing a post", func() {
		Describe("Given the fixture defaults", func() {
			It("should echo the composed payload for the target post", func(ctx SpecContext) {
				postID := scenario("validPostIds")[0]

				resp, payload, err := client.UpdatePost(ctx, postID, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				post, err := resp.Object()
				Expect(err).NotTo(HaveOccurred())
				Expect(post).To(HaveKeyWithValue("title", payload.Title()))
				Expect(post).To(HaveKeyWithValue("body", payload.Body()))
				Expect(post).To(HaveKeyWithValue("userId", BeNumerically("==", payload["userId"])))
				Expect(post).To(HaveKeyWithValue("id", BeNumerically("==", postID)))
				Expect(post).To(api.HavePostStructure())

				Expect(payload.Body()).To(ContainSubstring(" - Updated at "))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given custom data", func() {
			It("should keep the custom values", func(ctx SpecContext) {
				postID := scenario("validPostIds")[1]

				overrides := map[string]any{
					"title":  "Custom Updated Title",
					"body":   "Custom updated body content",
					"userId": 3,
				}

				resp, _, err := client.UpdatePost(ctx, postID, overrides)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				Expect(resp.Get("title").String()).To(ContainSubstring("Custom Updated Title"))
				Expect(resp.Get("body").String()).To(ContainSubstring("Custom updated body content"))
				Expect(resp.Get("userId").Int()).To(BeEquivalentTo(3))
				Expect(resp.Get("id").Int()).To(BeEquivalentTo(postID))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given several posts and owners", func() {
			It("should replace each post", func(ctx SpecContext) {
				postIDs := scenario("validPostIds")[:2]
				userIDs := scenario("userIds")[:2]

				for i, postID := range postIDs {
					resp, _, err := client.UpdatePost(ctx, postID, map[string]any{
						"userId": userIDs[i],
						"title":  fmt.Sprintf("Batch Update %d", i+1),
						"body":   fmt.Sprintf("Batch updated content %d", i+1),
					})
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusOK))

					Expect(resp.Get("userId").Int()).To(BeEquivalentTo(userIDs[i]))
					Expect(resp.Get("title").String()).To(ContainSubstring(fmt.Sprintf("Batch Update %d", i+1)))
				}
			}, SpecTimeout(config.TestTimeout))
		})
	})
})
