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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/placeholder-api-tests/test/api"

	"k8s.io/utils/ptr"
)

var _ = Describe("Method POST", func() {
	Context("When creating a post", func() {
		Describe("Given the fixture defaults", func() {
			It("should echo the composed payload with a new id", func(ctx SpecContext) {
				fixture := template("validPost")

				// When: I create a post without overrides
				resp, payload, err := client.CreatePost(ctx, nil)
				Expect(err).NotTo(HaveOccurred())

				// Then: the payload is unique to this run
				Expect(payload.Title()).To(HavePrefix(fixture["title"].(string)))
				Expect(payload.Title()).To(MatchRegexp(api.MarkerPattern.String()))
				Expect(payload).To(HaveKeyWithValue("userId", BeNumerically("==", fixture["userId"])))

				// And: the post is created and echoed
				Expect(resp).To(api.HaveStatus(http.StatusCreated))

				post, err := resp.Object()
				Expect(err).NotTo(HaveOccurred())
				Expect(post).To(HaveKeyWithValue("title", payload.Title()))
				Expect(post).To(HaveKeyWithValue("body", payload.Body()))
				Expect(post).To(HaveKeyWithValue("userId", BeNumerically("==", payload["userId"])))
				Expect(post).To(HaveKey("id"))
				Expect(post).To(api.HavePostStructure())
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given custom data", func() {
			It("should keep the custom values", func(ctx SpecContext) {
				overrides := api.PostOverrides{
					Title:  ptr.To("Custom Test Post"),
					Body:   ptr.To("This is a custom test post body"),
					UserID: ptr.To(2),
				}

				resp, _, err := client.CreatePost(ctx, overrides.Map())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusCreated))

				Expect(resp.Get("title").String()).To(ContainSubstring("Custom Test Post"))
				Expect(resp.Get("body").String()).To(ContainSubstring("This is a custom test post body"))
				Expect(resp.Get("userId").Int()).To(BeEquivalentTo(2))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given different owners", func() {
			It("should create a post for each user", func(ctx SpecContext) {
				titles := map[string]bool{}

				for _, userID := range scenario("userIds")[:3] {
					resp, payload, err := client.CreatePost(ctx, map[string]any{"userId": userID})
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusCreated))
					Expect(resp.Get("userId").Int()).To(BeEquivalentTo(userID))

					// And: no two composed titles collide
					Expect(titles).NotTo(HaveKey(payload.Title()))
					titles[payload.Title()] = true
				}
			}, SpecTimeout(config.TestTimeout))
		})
	})

	Context("When creating a post with an empty override", func() {
		Describe("Given a blank title", func() {
			It("should fall back to the fixture title", func(ctx SpecContext) {
				fixture := template("validPost")

				resp, payload, err := client.CreatePost(ctx, map[string]any{"title": ""})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusCreated))

				Expect(strings.HasPrefix(payload.Title(), fixture["title"].(string))).To(BeTrue())
				Expect(resp.Get("title").String()).To(Equal(payload.Title()))
			}, SpecTimeout(config.TestTimeout))
		})
	})
})
