package formdb

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	dup := &ErrDuplicateKey{Word: "run", Form: "past"}
	assert.Equal(t, `duplicate key ("run", "past")`, dup.Error())
	assert.ErrorIs(t, dup, ErrIntegrity)

	inv := &ErrInvalidRecord{Row: 3, cause: errors.New("empty key component: word")}
	assert.Equal(t, "invalid record at row 3: empty key component: word", inv.Error())
	assert.ErrorIs(t, inv, ErrIntegrity)

	se := &StoreError{Op: "update", Err: fs.ErrPermission}
	assert.Equal(t, "formdb: update: permission denied", se.Error())
	assert.ErrorIs(t, se, fs.ErrPermission)
	assert.NotErrorIs(t, se, ErrIntegrity)
}
