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

var _ = Describe("Method GET", func() {
	Context("When listing posts", func() {
		Describe("Given no filters", func() {
			It("should return a non-empty list of well formed posts", func(ctx SpecContext) {
				// When: I list all posts
				resp, err := client.GetAllPosts(ctx, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				// Then: a non-empty array is returned
				posts, err := resp.Array()
				Expect(err).NotTo(HaveOccurred())
				Expect(posts).NotTo(BeEmpty())

				// And: posts have the post structure
				Expect(posts[0]).To(api.HavePostStructure())

				GinkgoWriter.Printf("Found %d posts\n", len(posts))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given a userId filter", func() {
			It("should only return posts owned by that user", func(ctx SpecContext) {
				resp, err := client.GetAllPosts(ctx, map[string]string{"userId": "1"})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				posts, err := resp.Array()
				Expect(err).NotTo(HaveOccurred())

				for _, post := range posts {
					Expect(post).To(HaveKeyWithValue("userId", BeNumerically("==", 1)))
				}
			}, SpecTimeout(config.TestTimeout))
		})
	})

	Context("When getting posts by id", func() {
		Describe("Given valid ids", func() {
			It("should return the requested posts", func(ctx SpecContext) {
				// Given: the first three valid ids
				ids := scenario("validPostIds")[:3]

				for _, id := range ids {
					// When: I get the post
					resp, err := client.GetPost(ctx, id)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusOK))

					// Then: it is the post asked for
					post, err := resp.Object()
					Expect(err).NotTo(HaveOccurred())
					Expect(post).To(HaveKeyWithValue("id", BeNumerically("==", id)))
					Expect(post).To(api.HavePostStructure())
				}
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given ids that do not exist", func() {
			It("should return 404 Not Found", func(ctx SpecContext) {
				for _, id := range scenario("invalidPostIds") {
					resp, err := client.GetPost(ctx, id)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusNotFound))
				}
			}, SpecTimeout(config.TestTimeout))
		})
	})

	Context("When listing users", func() {
		Describe("Given no filters", func() {
			It("should return a non-empty list of well formed users", func(ctx SpecContext) {
				resp, err := client.GetAllUsers(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				users, err := resp.Array()
				Expect(err).NotTo(HaveOccurred())
				Expect(users).NotTo(BeEmpty())
				Expect(users[0]).To(api.HaveUserStructure())
			}, SpecTimeout(config.TestTimeout))
		})
	})

	Context("When getting users by id", func() {
		var users api.Document

		BeforeEach(func() {
			var err error

			users, err = client.Fixtures().Load(api.UsersFixture)
			Expect(err).NotTo(HaveOccurred())
		})

		Describe("Given valid ids", func() {
			It("should return the requested users", func(ctx SpecContext) {
				ids, err := users.Scenario("validUserIds")
				Expect(err).NotTo(HaveOccurred())

				for _, id := range ids {
					resp, err := client.Get(ctx, client.Endpoints().GetUser(id), nil)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusOK))
					Expect(resp.Get("id").Int()).To(BeEquivalentTo(id))

					user, err := resp.Object()
					Expect(err).NotTo(HaveOccurred())
					Expect(user).To(api.HaveUserStructure())
				}
			}, SpecTimeout(config.TestTimeout))

			It("should return the known details of the first user", func(ctx SpecContext) {
				expected, err := users.Template("expectedUser")
				Expect(err).NotTo(HaveOccurred())

				resp, err := client.Get(ctx, client.Endpoints().GetUser(1), nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				Expect(resp.Get("username").String()).To(Equal(expected["username"]))
				Expect(resp.Get("email").String()).To(Equal(expected["email"]))
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given ids that do not exist", func() {
			It("should return 404 Not Found", func(ctx SpecContext) {
				ids, err := users.Scenario("invalidUserIds")
				Expect(err).NotTo(HaveOccurred())

				for _, id := range ids {
					resp, err := client.Get(ctx, client.Endpoints().GetUser(id), nil)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusNotFound))
				}
			}, SpecTimeout(config.TestTimeout))
		})
	})
})
