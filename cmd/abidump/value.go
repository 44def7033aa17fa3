package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/wippyai/fvm-abi/types"
)

// parseValue parses a textual value literal against its descriptor:
//
//	()  true  42  0xff
//	"hello"
//	[1, 2, 3]            arrays and vectors
//	(1, true)            tuples
//	{x: 1, y: 2}         structs, fields in declared order
//	Some(42)  None       enum variants
func parseValue(text string, desc *types.Descriptor) (types.Value, error) {
	p := &valParser{src: text}
	v, err := p.parse(desc)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errf("trailing input at %d", p.pos)
	}
	return v, nil
}

type valParser struct {
	src string
	pos int
}

func (p *valParser) errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func (p *valParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *valParser) eat(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *valParser) expect(c byte) error {
	if !p.eat(c) {
		return p.errf("expected %q at %d", string(c), p.pos)
	}
	return nil
}

func (p *valParser) token() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ')' || c == ']' || c == '}' || c == '(' || c == ':' || c == ' ' {
			break
		}
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

func (p *valParser) quoted() (string, bool, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return "", false, nil
	}
	end := strings.IndexByte(p.src[p.pos+1:], '"')
	if end < 0 {
		return "", false, p.errf("unterminated string at %d", p.pos)
	}
	s := p.src[p.pos+1 : p.pos+1+end]
	p.pos += end + 2
	return s, true, nil
}

func (p *valParser) parse(d *types.Descriptor) (types.Value, error) {
	switch d.Kind {
	case types.KindUnit:
		if p.eat('(') {
			if err := p.expect(')'); err != nil {
				return nil, err
			}
		}
		return types.UnitVal(), nil

	case types.KindBool:
		switch tok := p.token(); tok {
		case "true", "1":
			return types.BoolVal(true), nil
		case "false", "0":
			return types.BoolVal(false), nil
		default:
			return nil, p.errf("%q is not a bool", tok)
		}

	case types.KindU8, types.KindU16, types.KindU32, types.KindU64:
		tok := p.token()
		n, err := strconv.ParseUint(tok, 0, bitsFor(d.Kind))
		if err != nil {
			return nil, p.errf("%q is not a %s", tok, d.Kind)
		}
		switch d.Kind {
		case types.KindU8:
			return types.U8Val(uint8(n)), nil
		case types.KindU16:
			return types.U16Val(uint16(n)), nil
		case types.KindU32:
			return types.U32Val(uint32(n)), nil
		default:
			return types.U64Val(n), nil
		}

	case types.KindU256:
		tok := p.token()
		u := new(uint256.Int)
		var err error
		if strings.HasPrefix(tok, "0x") {
			err = u.SetFromHex(tok)
		} else {
			err = u.SetFromDecimal(tok)
		}
		if err != nil {
			return nil, p.errf("%q is not a u256: %v", tok, err)
		}
		return types.U256Val(u), nil

	case types.KindB256:
		tok := strings.TrimPrefix(p.token(), "0x")
		raw, err := hex.DecodeString(tok)
		if err != nil || len(raw) != 32 {
			return nil, p.errf("b256 wants 32 hex bytes")
		}
		var b [32]byte
		copy(b[:], raw)
		return types.B256Val(b), nil

	case types.KindString:
		s, ok, err := p.quoted()
		if err != nil {
			return nil, err
		}
		if !ok {
			s = p.token()
		}
		return types.StrVal(s), nil

	case types.KindArray, types.KindVector:
		if err := p.expect('['); err != nil {
			return nil, err
		}
		var elems []types.Value
		if !p.eat(']') {
			for {
				el, err := p.parse(d.Elem)
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
				if !p.eat(',') {
					break
				}
			}
			if err := p.expect(']'); err != nil {
				return nil, err
			}
		}
		if d.Kind == types.KindArray {
			return types.ArrayValue(elems), nil
		}
		return types.VectorValue(elems), nil

	case types.KindTuple:
		if err := p.expect('('); err != nil {
			return nil, err
		}
		members := make([]types.Value, len(d.Fields))
		for i, f := range d.Fields {
			if i > 0 {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
			m, err := p.parse(f.Type)
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return types.TupleVal(members...), nil

	case types.KindStruct:
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		fields := make([]types.FieldValue, len(d.Fields))
		for i, f := range d.Fields {
			if i > 0 {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
			name := p.token()
			if name != f.Name {
				return nil, p.errf("field %d is %q, want %q", i, name, f.Name)
			}
			if err := p.expect(':'); err != nil {
				return nil, err
			}
			v, err := p.parse(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = types.NamedValue(f.Name, v)
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		return types.StructVal(d.Name, fields...), nil

	case types.KindEnum:
		name := p.token()
		for i, v := range d.Variants {
			if v.Name != name {
				continue
			}
			if !p.eat('(') {
				if v.Type.Kind == types.KindUnit {
					return types.EnumVal(d.Name, uint64(i), nil), nil
				}
				return nil, p.errf("variant %s carries a %s payload", name, v.Type.Signature())
			}
			if v.Type.Kind == types.KindUnit {
				if err := p.expect(')'); err != nil {
					return nil, err
				}
				return types.EnumVal(d.Name, uint64(i), nil), nil
			}
			payload, err := p.parse(v.Type)
			if err != nil {
				return nil, err
			}
			if err := p.expect(')'); err != nil {
				return nil, err
			}
			return types.EnumVal(d.Name, uint64(i), payload), nil
		}
		return nil, p.errf("%q is not a variant of %s", name, d.Signature())

	case types.KindGeneric:
		if d.Elem == nil {
			return nil, p.errf("unresolved generic %s", d.Name)
		}
		return p.parse(d.Elem)

	default:
		return nil, p.errf("cannot parse %s", d.Signature())
	}
}

func bitsFor(k types.Kind) int {
	switch k {
	case types.KindU8:
		return 8
	case types.KindU16:
		return 16
	case types.KindU32:
		return 32
	default:
		return 64
	}
}
