// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Test suite for mem module.
package servolink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/servolink"
)

// mockDevice creates a file standing in for /dev/mem.
func mockDevice(t testing.TB) string {
	path := filepath.Join(t.TempDir(), "mem")
	f, err := os.Create(path)
	require.Nil(t, err)
	require.Nil(t, f.Truncate(int64(os.Getpagesize())))
	require.Nil(t, f.Close())
	return path
}

func TestOpen(t *testing.T) {
	dev := mockDevice(t)
	b, err := servolink.Open(
		servolink.WithDevice(dev),
		servolink.WithBase(0),
		servolink.WithLength(16))
	require.Nil(t, err)
	assert.Equal(t, int64(0), b.Base())
	b.Write8(servolink.RegDIOA, 0x5a)
	assert.Equal(t, uint8(0x5a), b.Read8(servolink.RegDIOA))
	assert.Nil(t, b.Close())
	assert.Equal(t, servolink.ErrClosed, b.Close())
}

func TestOpenUnaligned(t *testing.T) {
	dev := mockDevice(t)
	b, err := servolink.Open(
		servolink.WithDevice(dev),
		servolink.WithBase(0x120),
		servolink.WithLength(16))
	require.Nil(t, err)
	b.Write8(0, 0x12)
	b.Write8(15, 0x34)
	require.Nil(t, b.Close())
	data, err := os.ReadFile(dev)
	require.Nil(t, err)
	assert.Equal(t, uint8(0x12), data[0x120])
	assert.Equal(t, uint8(0x34), data[0x12f])
}

func TestOpenMissing(t *testing.T) {
	b, err := servolink.Open(
		servolink.WithDevice(filepath.Join(t.TempDir(), "nonexistent")),
		servolink.WithBase(0))
	assert.Nil(t, b)
	assert.Equal(t, servolink.ErrMap, errors.Cause(err))
}

func TestOpenBadLength(t *testing.T) {
	dev := mockDevice(t)
	b, err := servolink.Open(servolink.WithDevice(dev), servolink.WithLength(0))
	assert.Nil(t, b)
	assert.Equal(t, servolink.ErrMap, errors.Cause(err))
}

func TestOpenUnprivileged(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("requires non-root")
	}
	if _, err := os.Stat(servolink.PortDevice); err != nil {
		t.Skip("requires ", servolink.PortDevice)
	}
	b, err := servolink.Open()
	assert.Nil(t, b)
	assert.Equal(t, servolink.ErrPrivilege, errors.Cause(err))
}

func TestOffsetOutOfRange(t *testing.T) {
	dev := mockDevice(t)
	b, err := servolink.Open(
		servolink.WithDevice(dev),
		servolink.WithBase(0),
		servolink.WithLength(4))
	require.Nil(t, err)
	defer b.Close()
	assert.Panics(t, func() { b.Read8(4) })
	assert.Panics(t, func() { b.Write8(servolink.RegDIODir, 0) })
	assert.NotPanics(t, func() { b.Write8(3, 0) })
}

func TestAccessAfterClose(t *testing.T) {
	dev := mockDevice(t)
	b, err := servolink.Open(servolink.WithDevice(dev), servolink.WithBase(0))
	require.Nil(t, err)
	require.Nil(t, b.Close())
	assert.Panics(t, func() { b.Read8(servolink.RegDIOA) })
	assert.Panics(t, func() { b.Write8(servolink.RegDIOA, 1) })
}
