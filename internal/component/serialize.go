package component

import (
	"fmt"
	"io"

	"github.com/gxcore/gxcore/internal/gxerr"
	"github.com/gxcore/gxcore/internal/statevar"
)

// Serialize writes c and its entire subtree to ctx's underlying writer,
// following the `component className { ... }` grammar of the save format.
func (c *Component) Serialize(ctx *statevar.Context) error {
	if err := ctx.WriteHeader(c.className); err != nil {
		return err
	}
	inner := ctx.Indent()
	for _, name := range c.varOrder {
		if err := inner.WriteVariable(c.vars[name]); err != nil {
			return err
		}
	}
	for _, child := range c.children {
		if err := child.Serialize(inner); err != nil {
			return err
		}
	}
	return ctx.WriteFooter()
}

// Deserialize reconstructs a component tree from r. Unknown class names
// still build a bare shell (via New) rather than failing the whole parse,
// so that a tree saved with a component this binary doesn't know about can
// still be inspected and re-saved losslessly.
func Deserialize(r io.Reader) (*Component, error) {
	tokens, err := statevar.Lex(r)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, gxerr.New(gxerr.FileFormatError, "", "empty component stream")
	}

	var stack []*Component
	var root *Component
	for _, tok := range tokens {
		switch tok.Kind {
		case statevar.TokenComponentOpen:
			c, ok := Create(tok.Name, "")
			if !ok {
				c = New(tok.Name, tok.Name)
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				if err := parent.AddChild(c, -1); err != nil {
					return nil, err
				}
			} else if root != nil {
				return nil, gxerr.New(gxerr.FileFormatError, "", "multiple root components")
			} else {
				root = c
			}
			stack = append(stack, c)
		case statevar.TokenComponentClose:
			if len(stack) == 0 {
				return nil, gxerr.New(gxerr.FileFormatError, "", "unbalanced component close")
			}
			stack = stack[:len(stack)-1]
		case statevar.TokenVariable:
			if len(stack) == 0 {
				return nil, gxerr.New(gxerr.FileFormatError, "", "variable outside any component")
			}
			cur := stack[len(stack)-1]
			if _, known := cur.GetVariable(tok.Name); !known {
				cur.AddVariable(statevar.NewZero(tok.Type, tok.Name))
			}
			if !cur.SetVariableValue(tok.Name, tok.Value) {
				return nil, fmt.Errorf("component: bad value for %s.%s = %s", cur.className, tok.Name, tok.Value)
			}
		}
	}
	if len(stack) != 0 {
		return nil, gxerr.New(gxerr.FileFormatError, "", "unclosed component")
	}
	return root, nil
}
