// Copyright 2026 groupwise Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, text string) [][]string {
	var lines [][]string
	scanner := bufio.NewScanner(strings.NewReader(text))
	err := ReadLines(scanner, ",", func(_ int, fields []string) bool {
		lines = append(lines, fields)
		return true
	})
	require.NoError(t, err)
	return lines
}

func TestReadLines(t *testing.T) {
	lines := readAll(t, "1,2,3\n4,5,6\n")
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, lines)
}

func TestReadLinesQuoted(t *testing.T) {
	lines := readAll(t, "1,\"Movie, The (1995)\",Comedy\n")
	assert.Equal(t, [][]string{{"1", "Movie, The (1995)", "Comedy"}}, lines)
	// escaped quote inside a quoted field
	lines = readAll(t, "1,\"say \"\"hi\"\"\",x\n")
	assert.Equal(t, [][]string{{"1", `say "hi"`, "x"}}, lines)
}

func TestReadLinesStopEarly(t *testing.T) {
	var count int
	scanner := bufio.NewScanner(strings.NewReader("a\nb\nc\n"))
	err := ReadLines(scanner, ",", func(lineNumber int, _ []string) bool {
		count++
		return lineNumber < 1
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
