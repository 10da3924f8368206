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

package handler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nscaledev/placeholder-api-tests/pkg/openapi"
)

const (
	SeedPosts    = 100
	SeedComments = 500
	SeedAlbums   = 100
	SeedTodos    = 200

	// CreatedPostID is the id assigned to every created post, writes are
	// never persisted so it never changes.
	CreatedPostID = SeedPosts + 1
)

//nolint:gochecknoglobals
var seedUsers = []openapi.User{
	{Id: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz"},
	{Id: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv"},
	{Id: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net"},
	{Id: 4, Name: "Patricia Lebsack", Username: "Karianne", Email: "Julianne.OConner@kory.org"},
	{Id: 5, Name: "Chelsey Dietrich", Username: "Kamren", Email: "Lucio_Hettinger@annie.ca"},
	{Id: 6, Name: "Mrs. Dennis Schulist", Username: "Leopoldo_Corkery", Email: "Karley_Dach@jasper.info"},
	{Id: 7, Name: "Kurtis Weissnat", Username: "Elwyn.Skiles", Email: "Telly.Hoeger@billy.biz"},
	{Id: 8, Name: "Nicholas Runolfsdottir V", Username: "Maxime_Nienow", Email: "Sherwood@rosamond.me"},
	{Id: 9, Name: "Glenna Reichert", Username: "Delphine", Email: "Chaim_McDermott@dana.io"},
	{Id: 10, Name: "Clementina DuBuque", Username: "Moriah.Stanton", Email: "Rey.Padberg@karina.biz"},
}

// Store is the seeded, read-only data set behind the fake.
type Store struct {
	posts    []openapi.Post
	users    []openapi.User
	comments []openapi.Comment
	albums   []openapi.Album
	todos    []openapi.Todo
}

// owner spreads n children evenly across parents, ids are 1-based.
func owner(id, n, parents int) int {
	return (id-1)/(n/parents) + 1
}

// NewStore returns a deterministically seeded store.
func NewStore() *Store {
	s := &Store{
		users: slices.Clone(seedUsers),
	}

	users := len(seedUsers)

	for id := 1; id <= SeedPosts; id++ {
		s.posts = append(s.posts, openapi.Post{
			Id:     id,
			UserId: owner(id, SeedPosts, users),
			Title:  fmt.Sprintf("seeded post %d", id),
			Body:   fmt.Sprintf("body of seeded post %d\nwritten by user %d", id, owner(id, SeedPosts, users)),
		})
	}

	for id := 1; id <= SeedComments; id++ {
		user := seedUsers[(id-1)%users]

		s.comments = append(s.comments, openapi.Comment{
			Id:     id,
			PostId: owner(id, SeedComments, SeedPosts),
			Name:   fmt.Sprintf("seeded comment %d", id),
			Email:  strings.ToLower(user.Email),
			Body:   fmt.Sprintf("body of seeded comment %d", id),
		})
	}

	for id := 1; id <= SeedAlbums; id++ {
		s.albums = append(s.albums, openapi.Album{
			Id:     id,
			UserId: owner(id, SeedAlbums, users),
			Title:  fmt.Sprintf("seeded album %d", id),
		})
	}

	for id := 1; id <= SeedTodos; id++ {
		s.todos = append(s.todos, openapi.Todo{
			Id:        id,
			UserId:    owner(id, SeedTodos, users),
			Title:     fmt.Sprintf("seeded todo %d", id),
			Completed: id%3 == 0,
		})
	}

	return s
}

func filter[T any](items []T, want *int, key func(T) int) []T {
	if want == nil {
		return slices.Clone(items)
	}

	return slices.DeleteFunc(slices.Clone(items), func(item T) bool {
		return key(item) != *want
	})
}

func lookup[T any](items []T, id int, key func(T) int) (T, bool) {
	i := slices.IndexFunc(items, func(item T) bool {
		return key(item) == id
	})

	if i < 0 {
		var zero T
		return zero, false
	}

	return items[i], true
}

func (s *Store) Posts(userID *int) []openapi.Post {
	return filter(s.posts, userID, func(p openapi.Post) int { return p.UserId })
}

func (s *Store) Post(id int) (openapi.Post, bool) {
	return lookup(s.posts, id, func(p openapi.Post) int { return p.Id })
}

func (s *Store) Users() []openapi.User {
	return slices.Clone(s.users)
}

func (s *Store) User(id int) (openapi.User, bool) {
	return lookup(s.users, id, func(u openapi.User) int { return u.Id })
}

func (s *Store) Comments(postID *int) []openapi.Comment {
	return filter(s.comments, postID, func(c openapi.Comment) int { return c.PostId })
}

func (s *Store) Albums(userID *int) []openapi.Album {
	return filter(s.albums, userID, func(a openapi.Album) int { return a.UserId })
}

func (s *Store) Todos(userID *int) []openapi.Todo {
	return filter(s.todos, userID, func(t openapi.Todo) int { return t.UserId })
}
