package filter

import (
	"errors"
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"
)

// ErrUnsupportedSyntax is returned for valid RFC 4515 constructs that have
// no Node equivalent, such as extensible matches.
var ErrUnsupportedSyntax = errors.New("filter: unsupported filter syntax")

// Parse parses RFC 4515 filter text such as "(&(cn=Bob)(age>=30))".
func Parse(s string) (Node, error) {
	packet, err := ldap.CompileFilter(s)
	if err != nil {
		return nil, fmt.Errorf("filter: invalid filter %q: %w", s, err)
	}
	return fromPacket(packet)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// fromPacket converts a compiled BER filter into a Node tree.
func fromPacket(p *ber.Packet) (Node, error) {
	switch p.Tag {
	case ldap.FilterAnd, ldap.FilterOr:
		children := make([]Node, 0, len(p.Children))
		for _, c := range p.Children {
			n, err := fromPacket(c)
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		}
		if p.Tag == ldap.FilterAnd {
			return And{Children: children}, nil
		}
		return Or{Children: children}, nil
	case ldap.FilterNot:
		if len(p.Children) != 1 {
			return nil, fmt.Errorf("filter: negation must have exactly one child")
		}
		child, err := fromPacket(p.Children[0])
		if err != nil {
			return nil, err
		}
		return Not{Child: child}, nil
	case ldap.FilterPresent:
		return Presence{Attribute: p.Data.String()}, nil
	case ldap.FilterSubstrings:
		if len(p.Children) != 2 {
			return nil, fmt.Errorf("filter: malformed substring filter")
		}
		n := Substring{Attribute: p.Children[0].Data.String()}
		for _, part := range p.Children[1].Children {
			value := part.Data.String()
			switch part.Tag {
			case ldap.FilterSubstringsInitial:
				n.Initial = value
			case ldap.FilterSubstringsAny:
				n.Any = append(n.Any, value)
			case ldap.FilterSubstringsFinal:
				n.Final = value
			}
		}
		return n, nil
	case ldap.FilterEqualityMatch, ldap.FilterGreaterOrEqual, ldap.FilterLessOrEqual, ldap.FilterApproxMatch:
		if len(p.Children) != 2 {
			return nil, fmt.Errorf("filter: malformed comparison filter")
		}
		attr, value := p.Children[0].Data.String(), p.Children[1].Data.String()
		switch p.Tag {
		case ldap.FilterEqualityMatch:
			return Equality{Attribute: attr, Value: value}, nil
		case ldap.FilterGreaterOrEqual:
			return GreaterOrEqual{Attribute: attr, Value: value}, nil
		case ldap.FilterLessOrEqual:
			return LessOrEqual{Attribute: attr, Value: value}, nil
		default:
			return ApproximateMatch{Attribute: attr, Value: value}, nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSyntax, ldap.FilterMap[uint64(p.Tag)])
	}
}
