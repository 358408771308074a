// Copyright (c) 2026 Hikari. All rights reserved.
// Author: dev@hikari.tv

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hikari-tv/hikari/pkg/convert"
)

/*
TestToInt verifies fault-tolerant integer parsing.
*/
func TestToInt(t *testing.T) {
	assert.Equal(t, 42, convert.ToInt("42"))
	assert.Equal(t, -7, convert.ToInt("-7"))
	assert.Equal(t, 0, convert.ToInt(""))
	assert.Equal(t, 0, convert.ToInt("not a number"))
}

/*
TestToIntD verifies defaulted integer parsing.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 42, convert.ToIntD("42", 10))
	assert.Equal(t, 10, convert.ToIntD("", 10))
	assert.Equal(t, 10, convert.ToIntD("garbage", 10))
}

/*
TestToBool verifies boolean parsing across accepted spellings.
*/
func TestToBool(t *testing.T) {
	assert.True(t, convert.ToBool("true"))
	assert.True(t, convert.ToBool("1"))
	assert.False(t, convert.ToBool("false"))
	assert.False(t, convert.ToBool("0"))
	assert.False(t, convert.ToBool(""))
	assert.False(t, convert.ToBool("yes"))
}

/*
TestToFloat64 verifies fault-tolerant float parsing.
*/
func TestToFloat64(t *testing.T) {
	assert.Equal(t, 95.5, convert.ToFloat64("95.5"))
	assert.Equal(t, 0.0, convert.ToFloat64(""))
	assert.Equal(t, 0.0, convert.ToFloat64("NaN-ish"))
}
