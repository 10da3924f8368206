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

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List posts, optionally filtered by owner.
	// (GET /posts)
	GetPosts(w http.ResponseWriter, r *http.Request, params GetPostsParams)
	// Create a post.
	// (POST /posts)
	PostPosts(w http.ResponseWriter, r *http.Request)
	// Delete a post.
	// (DELETE /posts/{postId})
	DeletePostsPostId(w http.ResponseWriter, r *http.Request, postId PostIdParameter)
	// Get a post.
	// (GET /posts/{postId})
	GetPostsPostId(w http.ResponseWriter, r *http.Request, postId PostIdParameter)
	// Partially update a post.
	// (PATCH /posts/{postId})
	PatchPostsPostId(w http.ResponseWriter, r *http.Request, postId PostIdParameter)
	// Replace a post.
	// (PUT /posts/{postId})
	PutPostsPostId(w http.ResponseWriter, r *http.Request, postId PostIdParameter)
	// List users.
	// (GET /users)
	GetUsers(w http.ResponseWriter, r *http.Request)
	// Get a user.
	// (GET /users/{userId})
	GetUsersUserId(w http.ResponseWriter, r *http.Request, userId UserIdParameter)
	// List comments, optionally filtered by post.
	// (GET /comments)
	GetComments(w http.ResponseWriter, r *http.Request, params GetCommentsParams)
	// List albums, optionally filtered by owner.
	// (GET /albums)
	GetAlbums(w http.ResponseWriter, r *http.Request, params GetAlbumsParams)
	// List todos, optionally filtered by owner.
	// (GET /todos)
	GetTodos(w http.ResponseWriter, r *http.Request, params GetTodosParams)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is raised when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return "Invalid format for parameter " + e.ParamName + ": " + e.Err.Error()
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) bindPathID(w http.ResponseWriter, r *http.Request, name string) (ResourceID, bool) {
	var id ResourceID

	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return 0, false
	}

	return id, true
}

func (siw *ServerInterfaceWrapper) bindOwner(w http.ResponseWriter, r *http.Request, name string, dest **int) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

// GetPosts operation middleware.
func (siw *ServerInterfaceWrapper) GetPosts(w http.ResponseWriter, r *http.Request) {
	var params GetPostsParams

	if !siw.bindOwner(w, r, "userId", &params.UserId) {
		return
	}

	siw.Handler.GetPosts(w, r, params)
}

// PostPosts operation middleware.
func (siw *ServerInterfaceWrapper) PostPosts(w http.ResponseWriter, r *http.Request) {
	siw.Handler.PostPosts(w, r)
}

// DeletePostsPostId operation middleware.
func (siw *ServerInterfaceWrapper) DeletePostsPostId(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindPathID(w, r, "postId")
	if !ok {
		return
	}

	siw.Handler.DeletePostsPostId(w, r, id)
}

// GetPostsPostId operation middleware.
func (siw *ServerInterfaceWrapper) GetPostsPostId(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindPathID(w, r, "postId")
	if !ok {
		return
	}

	siw.Handler.GetPostsPostId(w, r, id)
}

// PatchPostsPostId operation middleware.
func (siw *ServerInterfaceWrapper) PatchPostsPostId(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindPathID(w, r, "postId")
	if !ok {
		return
	}

	siw.Handler.PatchPostsPostId(w, r, id)
}

// PutPostsPostId operation middleware.
func (siw *ServerInterfaceWrapper) PutPostsPostId(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindPathID(w, r, "postId")
	if !ok {
		return
	}

	siw.Handler.PutPostsPostId(w, r, id)
}

// GetUsers operation middleware.
func (siw *ServerInterfaceWrapper) GetUsers(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetUsers(w, r)
}

// GetUsersUserId operation middleware.
func (siw *ServerInterfaceWrapper) GetUsersUserId(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindPathID(w, r, "userId")
	if !ok {
		return
	}

	siw.Handler.GetUsersUserId(w, r, id)
}

// GetComments operation middleware.
func (siw *ServerInterfaceWrapper) GetComments(w http.ResponseWriter, r *http.Request) {
	var params GetCommentsParams

	if !siw.bindOwner(w, r, "postId", &params.PostId) {
		return
	}

	siw.Handler.GetComments(w, r, params)
}

// GetAlbums operation middleware.
func (siw *ServerInterfaceWrapper) GetAlbums(w http.ResponseWriter, r *http.Request) {
	var params GetAlbumsParams

	if !siw.bindOwner(w, r, "userId", &params.UserId) {
		return
	}

	siw.Handler.GetAlbums(w, r, params)
}

// GetTodos operation middleware.
func (siw *ServerInterfaceWrapper) GetTodos(w http.ResponseWriter, r *http.Request) {
	var params GetTodosParams

	if !siw.bindOwner(w, r, "userId", &params.UserId) {
		return
	}

	siw.Handler.GetTodos(w, r, params)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}

	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get("/posts", wrapper.GetPosts)
	r.Post("/posts", wrapper.PostPosts)
	r.Delete("/posts/{postId}", wrapper.DeletePostsPostId)
	r.Get("/posts/{postId}", wrapper.GetPostsPostId)
	r.Patch("/posts/{postId}", wrapper.PatchPostsPostId)
	r.Put("/posts/{postId}", wrapper.PutPostsPostId)
	r.Get("/users", wrapper.GetUsers)
	r.Get("/users/{userId}", wrapper.GetUsersUserId)
	r.Get("/comments", wrapper.GetComments)
	r.Get("/albums", wrapper.GetAlbums)
	r.Get("/todos", wrapper.GetTodos)

	return r
}
