//go:build !linux

package storage

import "os"

func adviseRandom(*os.File) {}
