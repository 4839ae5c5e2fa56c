package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

// Error is a decoding or validation error located by a [*token.Token] or a
// [*yaml.Path]. Once [Annotate] attaches the source, the message quotes the
// offending lines.
type Error struct {
	Err   error
	Path  *yaml.Path
	Token *token.Token

	source  []byte
	colored bool
}

// Annotate attaches source to the [*Error] in err's chain, highlighting the
// quoted lines when colored is set. Other errors are returned unchanged.
func Annotate(err error, source []byte, colored bool) error {
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		yamlErr.source = source
		yamlErr.colored = colored
	}

	return err
}

func (e *Error) Error() string {
	if tk := e.position(); tk != nil {
		var p printer.Printer

		return fmt.Sprintf("[%d:%d] %v:\n%s",
			tk.Position.Line, tk.Position.Column, e.Err, p.PrintErrorToken(tk, e.colored))
	}

	if e.Path != nil {
		return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
	}

	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// position returns the token to quote, or nil when there is no source or
// the path is not found in it.
func (e *Error) position() *token.Token {
	if len(e.source) == 0 {
		return nil
	}
	if e.Token != nil {
		return e.Token
	}
	if e.Path == nil {
		return nil
	}

	file, err := parser.ParseBytes(e.source, 0)
	if err != nil {
		return nil
	}

	node, err := e.Path.FilterFile(file)
	if err != nil {
		return nil
	}

	// Point at the key rather than its value when the path ends in a key.
	path := e.Path.String()
	if dot := strings.LastIndexByte(path, '.'); dot > strings.LastIndexByte(path, '[') {
		if key := keyToken(file, path[:dot], path[dot+1:]); key != nil {
			return key
		}
	}

	return node.GetToken()
}

func keyToken(file *ast.File, parentPath, key string) *token.Token {
	parent, err := yaml.PathString(parentPath)
	if err != nil {
		return nil
	}

	node, err := parent.FilterFile(file)
	if err != nil {
		return nil
	}

	var values []*ast.MappingValueNode

	switch n := node.(type) {
	case *ast.MappingNode:
		values = n.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{n}
	}

	for _, v := range values {
		if v.Key.String() == key {
			return v.Key.GetToken()
		}
	}

	return nil
}
