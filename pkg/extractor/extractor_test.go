package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, src string, opts Options) ([]string, error) {
	t.Helper()
	return Extract(context.Background(), []byte(src), opts)
}

func TestExtract_ReferenceForms(t *testing.T) {
	src := `#!/usr/bin/env node
'use strict';
import React from 'react';
import './styles.css';
var _ = require("lodash");
var fp = require('lodash/fp');

module.exports = function (grunt) {
	grunt.loadNpmTasks('grunt-contrib-concat');
	function lazy() {
		return require('@scope/pkg/sub');
	}
};
`
	specs, err := extract(t, src, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"react",
		"./styles.css",
		"lodash",
		"lodash/fp",
		"grunt-contrib-concat",
		"@scope/pkg/sub",
	}, specs)
}

func TestExtract_SkipsNonLiteralArguments(t *testing.T) {
	src := `
var name = 'chalk';
require(name);
require('left' + 'pad');
require(` + "`tpl`" + `);
grunt.loadNpmTasks(taskName);
require();
require('');
require(42);
`
	specs, err := extract(t, src, Options{})
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestExtract_OnlyBareRequireCounts(t *testing.T) {
	src := `
loader.require('not-a-dependency');
requireFoo('nope');
require('yes');
`
	specs, err := extract(t, src, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"yes"}, specs)
}

func TestExtract_DecodesEscapes(t *testing.T) {
	specs, err := extract(t, `require('\x66oo'); require("bar");`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, specs)
}

func TestExtract_SyntaxError(t *testing.T) {
	specs, err := extract(t, "var x = require('lodash');\nfunction (\n", Options{})
	require.Error(t, err)
	assert.Nil(t, specs)
	assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.GreaterOrEqual(t, perr.Line, 1)
}

func TestExtract_JSXDialect(t *testing.T) {
	src := `
import React from 'react';
export const App = () => <div className="app"><Header /></div>;
`
	_, err := extract(t, src, Options{JSX: false})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	specs, err := extract(t, src, Options{JSX: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"react"}, specs)
}

func TestExtract_EmptySource(t *testing.T) {
	specs, err := extract(t, "", Options{})
	require.NoError(t, err)
	assert.Empty(t, specs)
}
