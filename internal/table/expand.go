package table

import (
	"fmt"
	"strings"
)

// ExpandType tags the kind of target an expansion node points at.
type ExpandType int

const (
	ExpandInvalid ExpandType = iota
	ExpandUsername
	ExpandAddress
	ExpandFilename
	ExpandFilter
	ExpandInclude
)

func (t ExpandType) String() string {
	switch t {
	case ExpandUsername:
		return "username"
	case ExpandAddress:
		return "address"
	case ExpandFilename:
		return "filename"
	case ExpandFilter:
		return "filter"
	case ExpandInclude:
		return "include"
	default:
		return "invalid"
	}
}

// ExpandNode is one parsed recipient target within an expansion list.
type ExpandNode struct {
	Type   ExpandType
	User   string
	Domain string
	// Path carries the file, command or include target for the
	// non-address node types.
	Path string
	// NoExpand is set for backslash-escaped usernames, which must not be
	// re-expanded by the alias layer.
	NoExpand bool
}

// ParseExpandNode parses one trimmed recipient token into an expansion node.
//
//	|command       filter
//	/path          filename
//	:include:/path include
//	user@domain    address
//	user           username
//	\user          username, expansion stops here
func ParseExpandNode(token string) (ExpandNode, error) {
	if token == "" {
		return ExpandNode{}, fmt.Errorf("empty recipient token")
	}
	if len(token) >= MaxLineSize {
		return ExpandNode{}, fmt.Errorf("recipient token too long")
	}

	switch {
	case token[0] == '|':
		command := token[1:]
		if command == "" {
			return ExpandNode{}, fmt.Errorf("filter target lacks a command")
		}
		return ExpandNode{Type: ExpandFilter, Path: command}, nil

	case token[0] == '/':
		return ExpandNode{Type: ExpandFilename, Path: token}, nil

	case strings.HasPrefix(token, ":include:"):
		path := token[len(":include:"):]
		if !strings.HasPrefix(path, "/") {
			return ExpandNode{}, fmt.Errorf("include target %q is not an absolute path", path)
		}
		return ExpandNode{Type: ExpandInclude, Path: path}, nil
	}

	noExpand := false
	if token[0] == '\\' {
		noExpand = true
		token = token[1:]
	}

	if at := strings.IndexByte(token, '@'); at >= 0 {
		user, domain := token[:at], token[at+1:]
		if user == "" || domain == "" {
			return ExpandNode{}, fmt.Errorf("malformed address %q", token)
		}
		if !validUsername(user) || !validDomain(domain) {
			return ExpandNode{}, fmt.Errorf("malformed address %q", token)
		}
		return ExpandNode{Type: ExpandAddress, User: user, Domain: domain, NoExpand: noExpand}, nil
	}

	if !validUsername(token) {
		return ExpandNode{}, fmt.Errorf("malformed username %q", token)
	}
	return ExpandNode{Type: ExpandUsername, User: token, NoExpand: noExpand}, nil
}

func validUsername(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.' || c == '+':
		default:
			return false
		}
	}
	return true
}

func validDomain(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '.':
		case c == '[' || c == ']' || c == ':':
			// bracketed literals
		default:
			return false
		}
	}
	return true
}
