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

package api

import (
	"encoding/json"
	"math"
)

// FieldType is a JSON primitive a contract can require.
type FieldType string

const (
	TypeInteger FieldType = "integer"
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
)

// Field is one requirement of a contract.
type Field struct {
	Name string
	Type FieldType
}

// Contract is an ordered set of required fields, checked in order.
type Contract struct {
	Name   string
	Fields []Field
}

var (
	PostContract = Contract{
		Name: "post",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "userId", Type: TypeInteger},
			{Name: "title", Type: TypeString},
			{Name: "body", Type: TypeString},
		},
	}

	UserContract = Contract{
		Name: "user",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "name", Type: TypeString},
			{Name: "email", Type: TypeString},
			{Name: "username", Type: TypeString},
		},
	}

	CommentContract = Contract{
		Name: "comment",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "postId", Type: TypeInteger},
			{Name: "name", Type: TypeString},
			{Name: "email", Type: TypeString},
			{Name: "body", Type: TypeString},
		},
	}

	AlbumContract = Contract{
		Name: "album",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "userId", Type: TypeInteger},
			{Name: "title", Type: TypeString},
		},
	}

	TodoContract = Contract{
		Name: "todo",
		Fields: []Field{
			{Name: "id", Type: TypeInteger},
			{Name: "userId", Type: TypeInteger},
			{Name: "title", Type: TypeString},
			{Name: "completed", Type: TypeBoolean},
		},
	}
)

// Validate checks obj against the contract and returns an *AssertionFailure
// for the first unmet requirement.
func (c Contract) Validate(obj any) error {
	object, ok := obj.(map[string]any)
	if !ok {
		return &AssertionFailure{Contract: c.Name, Expected: "object", Actual: typeName(obj)}
	}

	for _, field := range c.Fields {
		value, ok := object[field.Name]
		if !ok {
			return &AssertionFailure{Contract: c.Name, Field: field.Name, Expected: string(field.Type), Actual: "missing"}
		}

		if !field.Type.matches(value) {
			return &AssertionFailure{Contract: c.Name, Field: field.Name, Expected: string(field.Type), Actual: typeName(value)}
		}
	}

	return nil
}

func (t FieldType) matches(value any) bool {
	switch t {
	case TypeInteger:
		return isInteger(value)
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	}

	return false
}

// ValidatePostStructure requires integer id and userId, string title and body.
func ValidatePostStructure(obj any) error {
	return PostContract.Validate(obj)
}

// ValidateUserStructure requires integer id, string name, email and username.
func ValidateUserStructure(obj any) error {
	return UserContract.Validate(obj)
}

func ValidateCommentStructure(obj any) error {
	return CommentContract.Validate(obj)
}

func ValidateAlbumStructure(obj any) error {
	return AlbumContract.Validate(obj)
}

func ValidateTodoStructure(obj any) error {
	return TodoContract.Validate(obj)
}

// isInteger accepts any numeric representation without a fractional part.
func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return v == math.Trunc(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v) == math.Trunc(float64(v))
	case json.Number:
		_, err := v.Int64()
		return err == nil
	}

	return false
}

// typeName names a decoded JSON value's type.
func typeName(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		if isInteger(v) {
			return "integer"
		}

		if _, ok := v.(float64); ok {
			return "number"
		}

		return "unknown"
	}
}
