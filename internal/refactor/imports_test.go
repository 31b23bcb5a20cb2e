package refactor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertImport_PythonAfterImportBlock(t *testing.T) {
	content := "import os\nimport sys\n\ndef main():\n    pass"

	got := InsertImport(content, "from utils import helper", "python")

	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "from utils import helper", lines[2])
}

func TestInsertImport_PythonAfterShebangAndDocstring(t *testing.T) {
	content := "#!/usr/bin/env python\n\"\"\"Module docstring.\"\"\"\nx = 1"

	got := InsertImport(content, "import json", "python")

	lines := strings.Split(got, "\n")
	assert.Equal(t, "#!/usr/bin/env python", lines[0])
	assert.Equal(t, `"""Module docstring."""`, lines[1])
	assert.Equal(t, "import json", lines[2])
	assert.Equal(t, "x = 1", lines[3])
}

func TestInsertImport_PythonMultilineDocstring(t *testing.T) {
	content := "\"\"\"\nLonger docstring.\n\"\"\"\nx = 1"

	got := InsertImport(content, "import json", "py")

	lines := strings.Split(got, "\n")
	assert.Equal(t, "import json", lines[3])
	assert.Equal(t, "x = 1", lines[4])
}

func TestInsertImport_JavaScriptAfterPragmaAndRequires(t *testing.T) {
	content := "'use strict';\nconst fs = require('fs');\n\nfunction main() {}"

	got := InsertImport(content, "const path = require('path');", "javascript")

	lines := strings.Split(got, "\n")
	assert.Equal(t, "const path = require('path');", lines[2])
}

func TestInsertImport_GoAfterImportBlock(t *testing.T) {
	content := "package main\n\nimport (\n\t\"fmt\"\n)\n\nfunc main() {}"

	got := InsertImport(content, "import \"strings\"", "go")

	lines := strings.Split(got, "\n")
	// The block closes on line index 4; the new statement follows it.
	assert.Equal(t, ")", lines[4])
	assert.Equal(t, "import \"strings\"", lines[5])
}

func TestInsertImport_GoBarePackageClause(t *testing.T) {
	content := "package util\n\nfunc Helper() {}"

	got := InsertImport(content, "import \"fmt\"", "go")

	lines := strings.Split(got, "\n")
	assert.Equal(t, "package util", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "import \"fmt\"", lines[2])
}

func TestInsertImport_SkipsWhenAlreadyPresent(t *testing.T) {
	content := "import os\nx = 1"

	got := InsertImport(content, "import os", "python")
	assert.Equal(t, content, got)
}

func TestInsertImport_EmptyStatementIsNoOp(t *testing.T) {
	content := "x = 1"
	assert.Equal(t, content, InsertImport(content, "", "python"))
}

func TestInsertImport_UnknownLanguagePrepends(t *testing.T) {
	got := InsertImport("body", "use std::fs;", "rust")

	lines := strings.Split(got, "\n")
	assert.Equal(t, "use std::fs;", lines[0])
	assert.Equal(t, "body", lines[1])
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "python", normalizeLanguage("py"))
	assert.Equal(t, "javascript", normalizeLanguage("TypeScript"))
	assert.Equal(t, "javascript", normalizeLanguage("ts"))
	assert.Equal(t, "go", normalizeLanguage("golang"))
	assert.Equal(t, "ruby", normalizeLanguage("Ruby"))
}
