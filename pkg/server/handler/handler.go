/*
Copyright 2024-2025 the Unikorn Authors.
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
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/spf13/pflag"

	"github.com/nscaledev/placeholder-api-tests/pkg/openapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Options allows behaviour to be defined on the CLI.
type Options struct {
	// CacheMaxAge is advertised on read responses.
	CacheMaxAge time.Duration
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.DurationVar(&o.CacheMaxAge, "cache-max-age", 12*time.Hour, "How long to cache read responses for.")
}

type Handler struct {
	// store holds the seeded resources.
	store *Store

	// options allows behaviour to be defined on the CLI.
	options *Options
}

var _ openapi.ServerInterface = &Handler{}

func New(store *Store, options *Options) (*Handler, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", errInvalidArgument)
	}

	if options == nil {
		options = &Options{}
	}

	h := &Handler{
		store:   store,
		options: options,
	}

	return h, nil
}

var errInvalidArgument = errors.New("invalid argument")

func (h *Handler) setCacheable(w http.ResponseWriter) {
	if h.options.CacheMaxAge > 0 {
		w.Header().Add("Cache-Control", fmt.Sprintf("max-age=%d", h.options.CacheMaxAge/time.Second))
	}
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

// WriteJSONResponse encodes the result with the given status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, code int, response any) {
	body, err := json.Marshal(response)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		log.FromContext(r.Context()).Error(err, "failed to write response")
	}
}

// WriteEmpty writes the sandbox's empty object body.
func WriteEmpty(w http.ResponseWriter, r *http.Request, code int) {
	WriteJSONResponse(w, r, code, struct{}{})
}

// readJSONBody decodes an arbitrary object, numbers are kept exact so that
// echoed integers stay integers.  An empty body is an empty object.
func readJSONBody(r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	object := map[string]any{}

	if len(bytes.TrimSpace(body)) == 0 {
		return object, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	if err := decoder.Decode(&object); err != nil {
		return nil, err
	}

	return object, nil
}

func toObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	object := map[string]any{}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&object); err != nil {
		return nil, err
	}

	return object, nil
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request, params openapi.GetPostsParams) {
	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, h.store.Posts(params.UserId))
}

func (h *Handler) PostPosts(w http.ResponseWriter, r *http.Request) {
	request, err := readJSONBody(r)
	if err != nil {
		WriteEmpty(w, r, http.StatusBadRequest)
		return
	}

	request["id"] = CreatedPostID

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusCreated, request)
}

func (h *Handler) GetPostsPostId(w http.ResponseWriter, r *http.Request, postID openapi.PostIdParameter) {
	post, ok := h.store.Post(postID.Int())
	if !ok {
		WriteEmpty(w, r, http.StatusNotFound)
		return
	}

	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, post)
}

func (h *Handler) PutPostsPostId(w http.ResponseWriter, r *http.Request, postID openapi.PostIdParameter) {
	if _, ok := h.store.Post(postID.Int()); !ok {
		WriteEmpty(w, r, http.StatusNotFound)
		return
	}

	request, err := readJSONBody(r)
	if err != nil {
		WriteEmpty(w, r, http.StatusBadRequest)
		return
	}

	request["id"] = postID.Int()

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, request)
}

func (h *Handler) PatchPostsPostId(w http.ResponseWriter, r *http.Request, postID openapi.PostIdParameter) {
	post, ok := h.store.Post(postID.Int())
	if !ok {
		WriteEmpty(w, r, http.StatusNotFound)
		return
	}

	request, err := readJSONBody(r)
	if err != nil {
		WriteEmpty(w, r, http.StatusBadRequest)
		return
	}

	result, err := toObject(post)
	if err != nil {
		WriteEmpty(w, r, http.StatusInternalServerError)
		return
	}

	maps.Copy(result, request)
	result["id"] = postID.Int()

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, result)
}

// DeletePostsPostId succeeds for any id, as the sandbox does.
func (h *Handler) DeletePostsPostId(w http.ResponseWriter, r *http.Request, _ openapi.PostIdParameter) {
	h.setUncacheable(w)
	WriteEmpty(w, r, http.StatusOK)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, h.store.Users())
}

func (h *Handler) GetUsersUserId(w http.ResponseWriter, r *http.Request, userID openapi.UserIdParameter) {
	user, ok := h.store.User(userID.Int())
	if !ok {
		WriteEmpty(w, r, http.StatusNotFound)
		return
	}

	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, user)
}

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request, params openapi.GetCommentsParams) {
	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, h.store.Comments(params.PostId))
}

func (h *Handler) GetAlbums(w http.ResponseWriter, r *http.Request, params openapi.GetAlbumsParams) {
	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, h.store.Albums(params.UserId))
}

func (h *Handler) GetTodos(w http.ResponseWriter, r *http.Request, params openapi.GetTodosParams) {
	h.setCacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, h.store.Todos(params.UserId))
}
