package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	for _, n := range []uint16{1048, 1364, 1406, 1451, 1452, 1216} {
		err := mapDBError(fmt.Errorf("exec: %w", &mysql.MySQLError{Number: n, Message: "boom"}))
		assert.ErrorIs(t, err, ErrConstraintViolation, "error %d", n)
		assert.Contains(t, err.Error(), "boom")
	}

	other := &mysql.MySQLError{Number: 1213, Message: "deadlock"}
	assert.Equal(t, error(other), mapDBError(other))

	plain := errors.New("conn reset")
	assert.Equal(t, plain, mapDBError(plain))
	assert.NoError(t, mapDBError(nil))
}
