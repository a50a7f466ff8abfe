//go:build unix

package mmap

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

var advice = map[AccessPattern]int{
	AccessDefault:    unix.MADV_NORMAL,
	AccessSequential: unix.MADV_SEQUENTIAL,
	AccessRandom:     unix.MADV_RANDOM,
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}
	adv, ok := advice[pattern]
	if !ok {
		adv = unix.MADV_NORMAL
	}
	// EINVAL: the platform rejected the hint for this range. Hints are
	// optional, so the buffer stays readable either way.
	if err := unix.Madvise(data, adv); err != nil && !errors.Is(err, unix.EINVAL) {
		return err
	}
	return nil
}
