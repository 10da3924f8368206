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
	"github.com/onsi/gomega/types"

	"github.com/nscaledev/placeholder-api-tests/test/api"
)

// fetchCollection fetches path with the default method and decodes a
// non-empty array.
func fetchCollection(ctx SpecContext, path string) []map[string]any {
	resp, err := client.Fetch(ctx, "", path, nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(api.HaveStatus(http.StatusOK))

	items, err := resp.Array()
	Expect(err).NotTo(HaveOccurred())
	Expect(items).NotTo(BeEmpty())

	return items
}

var _ = Describe("Method FETCH", func() {
	Context("When fetching collections", func() {
		Describe("Given posts and users", func() {
			It("should return well formed posts", func(ctx SpecContext) {
				posts := fetchCollection(ctx, client.Endpoints().ListPosts())

				for _, post := range posts[:min(3, len(posts))] {
					Expect(post).To(api.HavePostStructure())
				}
			}, SpecTimeout(config.TestTimeout))

			It("should return well formed users", func(ctx SpecContext) {
				users := fetchCollection(ctx, client.Endpoints().ListUsers())

				for _, user := range users[:min(3, len(users))] {
					Expect(user).To(api.HaveUserStructure())
				}
			}, SpecTimeout(config.TestTimeout))
		})

		DescribeTable("Given other collections the first item should be well formed",
			func(ctx SpecContext, path string, matcher types.GomegaMatcher) {
				items := fetchCollection(ctx, path)
				Expect(items[0]).To(matcher)
			},
			Entry("comments", "/comments", api.HaveCommentStructure(), SpecTimeout(config.TestTimeout)),
			Entry("albums", "/albums", api.HaveAlbumStructure(), SpecTimeout(config.TestTimeout)),
			Entry("todos", "/todos", api.HaveTodoStructure(), SpecTimeout(config.TestTimeout)),
		)
	})

	Context("When fetching with an explicit method", func() {
		It("should behave as the matching verb", func(ctx SpecContext) {
			resp, err := client.Fetch(ctx, http.MethodGet, client.Endpoints().GetPost(1), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp.Get("id").Int()).To(BeEquivalentTo(1))
		}, SpecTimeout(config.TestTimeout))
	})
})
