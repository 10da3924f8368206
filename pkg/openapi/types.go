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

//nolint:revive
package openapi

// Post is a blog post.
type Post struct {
	Id     int    `json:"id"`
	UserId int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// User is a post author.
type User struct {
	Id       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Comment is a comment on a post.
type Comment struct {
	Id     int    `json:"id"`
	PostId int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Album is a user's photo album.
type Album struct {
	Id     int    `json:"id"`
	UserId int    `json:"userId"`
	Title  string `json:"title"`
}

// Todo is a user's task.
type Todo struct {
	Id        int    `json:"id"`
	UserId    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// PostIdParameter identifies a post in a path.
type PostIdParameter = ResourceID

// UserIdParameter identifies a user in a path.
type UserIdParameter = ResourceID

// GetPostsParams defines parameters for GetPosts.
type GetPostsParams struct {
	UserId *int `form:"userId,omitempty" json:"userId,omitempty"`
}

// GetCommentsParams defines parameters for GetComments.
type GetCommentsParams struct {
	PostId *int `form:"postId,omitempty" json:"postId,omitempty"`
}

// GetAlbumsParams defines parameters for GetAlbums.
type GetAlbumsParams struct {
	UserId *int `form:"userId,omitempty" json:"userId,omitempty"`
}

// GetTodosParams defines parameters for GetTodos.
type GetTodosParams struct {
	UserId *int `form:"userId,omitempty" json:"userId,omitempty"`
}
