// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import (
	"context"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/golang/leveldb/db"
	"github.com/golang/leveldb/memfs"
)

var (
	vfsOnce sync.Once
	vfs     db.FileSystem
)

func memFS() db.FileSystem {
	vfsOnce.Do(func() {
		vfs = memfs.New()
	})
	return vfs
}

// ReadFile reads filename, transparently serving a "/memfs/"-rooted path
// out of an in-process virtual filesystem instead of the OS — the same
// /memfs/ convention grammar imports and FileResolver roots use, so a test
// can register a grammar's source without touching disk.
func ReadFile(ctx context.Context, filename string) ([]byte, error) {
	if strings.HasPrefix(filename, "/memfs/") {
		fs := memFS()
		fi, err := fs.Stat(filename)
		if err != nil {
			return nil, err
		}
		f, err := fs.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf := make([]byte, int(fi.Size()))
		n, err := f.Read(buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
	return ioutil.ReadFile(filename)
}

// WriteFile writes contents to filename, honoring the same "/memfs/" prefix
// as ReadFile; used by tests to seed grammar sources without a real file.
func WriteFile(ctx context.Context, filename string, contents []byte) error {
	if strings.HasPrefix(filename, "/memfs/") {
		fs := memFS()
		if err := fs.MkdirAll(path.Dir(filename), 0770); err != nil {
			return err
		}
		f, err := fs.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = f.Write(contents)
		return err
	}
	return ioutil.WriteFile(filename, contents, 0775)
}

// Stat reports whether filename exists, under either the OS or the
// "/memfs/" virtual filesystem; FileResolver uses it to probe each
// candidate path in its search order.
func Stat(ctx context.Context, filename string) (os.FileInfo, error) {
	if strings.HasPrefix(filename, "/memfs/") {
		return memFS().Stat(filename)
	}
	return os.Stat(filename)
}
