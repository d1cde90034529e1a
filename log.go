// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sprunk

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const TableLogField = "table"
const RecoveryLogField = "recovery"

func parseLogLevel(name string) (logrus.Level, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultLogLevel
	}

	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, ErrInvalidLogLevel.New(name)
	}
	return lvl, nil
}

// SetupLogging sets the level of the standard logrus logger from the config.
func SetupLogging(cfg *Config) error {
	lvl, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	logrus.SetLevel(lvl)
	return nil
}
