// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package servolink

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Devices providing access to the board registers.
const (
	// PortDevice provides access to x86 I/O port space.
	PortDevice = "/dev/port"
	// MemDevice provides access to physical memory, for memory-mapped boards.
	MemDevice = "/dev/mem"
)

// Block is an opened register window.
//
// Blocks opened on PortDevice access the registers with positioned reads
// and writes, while other devices are memory mapped.
//
// Access is assumed to succeed once the Block is open, as Registers has no
// error return.  An I/O error on the port device, an offset outside the
// window, or access after Close is fatal and panics.
type Block struct {
	// Immutable fields
	base   int64
	length int
	device string
	// Guards the following.
	mu      sync.Mutex
	file    *os.File
	mapping []uint8
	mem     []uint8
}

// Option modifies the Block created by Open.
type Option func(*Block)

// WithBase sets the physical base address of the window.
func WithBase(base int64) Option {
	return func(b *Block) {
		b.base = base
	}
}

// WithLength sets the length of the window, in bytes.
func WithLength(length int) Option {
	return func(b *Block) {
		b.length = length
	}
}

// WithDevice sets the device file used to access the window.
func WithDevice(device string) Option {
	return func(b *Block) {
		b.device = device
	}
}

// Open acquires I/O privilege for the register window and maps it.
//
// Failure to acquire privilege is reported as ErrPrivilege, and failure to
// map as ErrMap.  Neither is recoverable.
func Open(options ...Option) (*Block, error) {
	b := &Block{
		base:   DefaultBase,
		length: DefaultLength,
		device: PortDevice,
	}
	for _, option := range options {
		option(b)
	}
	if b.length <= 0 || b.length > 256 {
		return nil, errors.Wrapf(ErrMap, "invalid length %d", b.length)
	}
	if b.device == PortDevice {
		if err := ioperm(b.base, b.length); err != nil {
			return nil, errors.Wrapf(ErrPrivilege, "ioperm 0x%x: %v", b.base, err)
		}
	}
	file, err := os.OpenFile(b.device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrapf(ErrPrivilege, "%v", err)
		}
		return nil, errors.Wrapf(ErrMap, "%v", err)
	}
	if b.device == PortDevice {
		b.file = file
		return b, nil
	}
	defer file.Close()

	// mmap offsets must be page aligned.
	pageOffset := b.base % int64(os.Getpagesize())
	mapping, err := unix.Mmap(
		int(file.Fd()),
		b.base-pageOffset,
		int(pageOffset)+b.length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(ErrMap, "mmap 0x%x: %v", b.base, err)
	}
	b.mapping = mapping
	b.mem = mapping[pageOffset : int(pageOffset)+b.length]
	return b, nil
}

// Close releases the register window.
func (b *Block) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.file != nil:
		err := b.file.Close()
		b.file = nil
		return err
	case b.mapping != nil:
		err := unix.Munmap(b.mapping)
		b.mapping = nil
		b.mem = nil
		return err
	}
	return ErrClosed
}

// Base returns the physical base address of the window.
func (b *Block) Base() int64 {
	return b.base
}

// Read8 reads the register at offset.
func (b *Block) Read8(offset uint8) uint8 {
	b.checkOffset(offset)
	if b.mem != nil {
		return b.mem[offset]
	}
	var buf [1]byte
	if _, err := unix.Pread(b.fd(), buf[:], b.base+int64(offset)); err != nil {
		panic(fmt.Sprintf("read 0x%x: %v", b.base+int64(offset), err))
	}
	return buf[0]
}

// Write8 writes value to the register at offset.
func (b *Block) Write8(offset, value uint8) {
	b.checkOffset(offset)
	if b.mem != nil {
		b.mem[offset] = value
		return
	}
	buf := [1]byte{value}
	if _, err := unix.Pwrite(b.fd(), buf[:], b.base+int64(offset)); err != nil {
		panic(fmt.Sprintf("write 0x%x: %v", b.base+int64(offset), err))
	}
}

func (b *Block) checkOffset(offset uint8) {
	if int(offset) >= b.length {
		panic(fmt.Sprintf("register offset %d outside window of %d", offset, b.length))
	}
}

func (b *Block) fd() int {
	if b.file == nil {
		panic("register block not open")
	}
	return int(b.file.Fd())
}

var (
	// ErrPrivilege indicates the process could not acquire I/O privilege.
	ErrPrivilege = errors.New("I/O privilege denied")

	// ErrMap indicates the register window could not be mapped.
	ErrMap = errors.New("register map failed")

	// ErrClosed indicates the block is already closed.
	ErrClosed = errors.New("already closed")
)
