package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ID is the literal text form of a user identifier. Numeric and string ids
// are both accepted and kept exactly as written.
type ID string

var ErrInvalidID = errors.New("id must be a string or a number")

func IntID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidID
	}
	*id = ID(n.String())
	return nil
}

// UserInput is the record handed to the formatter. Nil fields are absent.
type UserInput struct {
	ID   *ID     `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

func NewUserInput(id ID, name string) UserInput {
	return UserInput{ID: &id, Name: &name}
}

type HistoryEntry struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

type ProcessedUser struct {
	DisplayName  string         `json:"display_name"`
	NormalizedID string         `json:"normalized_id"`
	History      []HistoryEntry `json:"-"`
}

// HasHistory reports whether history was requested; an empty non-nil slice
// still counts.
func (u ProcessedUser) HasHistory() bool {
	return u.History != nil
}

func (u ProcessedUser) MarshalJSON() ([]byte, error) {
	type wire struct {
		DisplayName  string          `json:"display_name"`
		NormalizedID string          `json:"normalized_id"`
		History      *[]HistoryEntry `json:"history,omitempty"`
	}
	w := wire{DisplayName: u.DisplayName, NormalizedID: u.NormalizedID}
	if u.HasHistory() {
		w.History = &u.History
	}
	return json.Marshal(w)
}
