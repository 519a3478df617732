// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refmempool_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
)

const testLogDirectory = "testing"

func TestMain(m *testing.M) {
	_ = os.Mkdir(testLogDirectory, 0700)
	_ = logger.Initialise(logger.Configuration{
		Directory: testLogDirectory,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	rc := m.Run()

	_ = os.RemoveAll(testLogDirectory)
	os.Exit(rc)
}
