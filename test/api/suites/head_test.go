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

var _ = Describe("Method HEAD", func() {
	Context("When checking collection availability", func() {
		entry := func(name, path string) TableEntry {
			return Entry(name, path, SpecTimeout(config.TestTimeout))
		}

		DescribeTable("should answer with JSON metadata and no body",
			func(ctx SpecContext, path string) {
				resp, err := client.Head(ctx, path, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp.Body).To(BeEmpty())

				Expect(resp.HeaderValue("Content-Type")).To(ContainSubstring("application/json"))
				Expect(resp).To(api.HaveHeaders("Date", "Server"))
			},
			entry("posts", "/posts"),
			entry("users", "/users"),
			entry("comments", "/comments"),
			entry("albums", "/albums"),
			entry("todos", "/todos"),
		)
	})

	Context("When checking a single post", func() {
		Describe("Given the post exists", func() {
			It("should answer with a content type", func(ctx SpecContext) {
				resp, err := client.Head(ctx, client.Endpoints().GetPost(1), nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp.HeaderValue("Content-Type")).NotTo(BeEmpty())
			}, SpecTimeout(config.TestTimeout))
		})
	})

	Context("When checking an unknown path", func() {
		It("should return 404 Not Found", func(ctx SpecContext) {
			resp, err := client.Head(ctx, "/nonexistent", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		}, SpecTimeout(config.TestTimeout))
	})
})
