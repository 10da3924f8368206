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

var _ = Describe("Method DELETE", func() {
	Context("When deleting posts", func() {
		Describe("Given an existing post", func() {
			It("should return an empty object", func(ctx SpecContext) {
				postID := scenario("validPostIds")[0]

				resp, err := client.DeletePost(ctx, postID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))

				body, err := resp.Object()
				Expect(err).NotTo(HaveOccurred())
				Expect(body).To(BeEmpty())
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given several posts", func() {
			It("should delete each one", func(ctx SpecContext) {
				for _, postID := range scenario("validPostIds")[:3] {
					resp, err := client.DeletePost(ctx, postID)
					Expect(err).NotTo(HaveOccurred())
					Expect(resp).To(api.HaveStatus(http.StatusOK))

					body, err := resp.Object()
					Expect(err).NotTo(HaveOccurred())
					Expect(body).To(BeEmpty())
				}
			}, SpecTimeout(config.TestTimeout))
		})

		Describe("Given a post that does not exist", func() {
			// The sandbox does not report missing posts on delete.
			It("should still return 200 OK", func(ctx SpecContext) {
				resp, err := client.DeletePost(ctx, scenario("invalidPostIds")[0])
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))
			}, SpecTimeout(config.TestTimeout))
		})
	})
})
