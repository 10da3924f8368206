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

var _ = Describe("API contract", func() {
	var validator *api.ContractValidator

	BeforeEach(func() {
		var err error

		validator, err = api.NewContractValidator(baseURL)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("When reading resources", func() {
		DescribeTable("responses should match the published document",
			func(ctx SpecContext, path string, status int) {
				resp, err := client.Get(ctx, path, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(status))
				Expect(validator.ValidateResponse(ctx, resp)).To(Succeed())
			},
			Entry("post list", "/posts", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("filtered post list", "/posts?userId=2", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("post", "/posts/1", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("missing post", "/posts/99999", http.StatusNotFound, SpecTimeout(config.TestTimeout)),
			Entry("user list", "/users", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("user", "/users/1", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("comment list", "/comments?postId=1", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("album list", "/albums", http.StatusOK, SpecTimeout(config.TestTimeout)),
			Entry("todo list", "/todos", http.StatusOK, SpecTimeout(config.TestTimeout)),
		)
	})

	Context("When writing posts", func() {
		It("should document the create response", func(ctx SpecContext) {
			resp, _, err := client.CreatePost(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(validator.ValidateResponse(ctx, resp)).To(Succeed())
		}, SpecTimeout(config.TestTimeout))

		It("should document the replace response", func(ctx SpecContext) {
			resp, _, err := client.UpdatePost(ctx, 1, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(validator.ValidateResponse(ctx, resp)).To(Succeed())
		}, SpecTimeout(config.TestTimeout))

		It("should document the delete response", func(ctx SpecContext) {
			resp, err := client.DeletePost(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(validator.ValidateResponse(ctx, resp)).To(Succeed())
		}, SpecTimeout(config.TestTimeout))
	})
})
