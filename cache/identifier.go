package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind names a family of cache keys/tags with a fixed argument arity.
type Kind string

// Entity kinds understood by the identifier generator. Derived-lookup kinds
// (the *_with_* family) compose to the canonical kind's key space plus a
// suffix segment, so a key generated for a derived kind is byte-identical to
// the key a handler composes from prefix + lookup argument + suffix.
const (
	KindContent                              Kind = "content"
	KindUser                                 Kind = "user"
	KindUserWithByLoginSuffix                Kind = "user_with_by_login_suffix"
	KindUserWithByEmailSuffix                Kind = "user_with_by_email_suffix"
	KindUsersWithByEmailSuffix               Kind = "users_with_by_email_suffix"
	KindUserWithAccountKeySuffix             Kind = "user_with_account_key_suffix"
	KindUserWithByAccountKeySuffix           Kind = "user_with_by_account_key_suffix"
	KindRole                                 Kind = "role"
	KindRoleWithByIDSuffix                   Kind = "role_with_by_id_suffix"
	KindPolicy                               Kind = "policy"
	KindRoleAssignment                       Kind = "role_assignment"
	KindRoleAssignmentGroupList              Kind = "role_assignment_group_list"
	KindRoleAssignmentRoleList               Kind = "role_assignment_role_list"
	KindRoleAssignmentWithByRoleSuffix       Kind = "role_assignment_with_by_role_suffix"
	KindRoleAssignmentWithByGroupSuffix      Kind = "role_assignment_with_by_group_suffix"
	KindRoleAssignmentWithByGroupInheritedSuffix Kind = "role_assignment_with_by_group_inherited_suffix"
	KindLocation                             Kind = "location"
	KindLocationPath                         Kind = "location_path"
	KindContentLocations                     Kind = "content_locations"
)

// kindSpec describes how a kind renders: the base segment written into the
// identifier, an optional trailing suffix segment, and the number of
// arguments the kind requires.
type kindSpec struct {
	base   string
	suffix string
	arity  int
}

var kinds = map[Kind]kindSpec{
	KindContent:                    {base: "content", arity: 1},
	KindUser:                       {base: "user", arity: 1},
	KindUserWithByLoginSuffix:      {base: "user", suffix: "by_login_suffix", arity: 1},
	KindUserWithByEmailSuffix:      {base: "user", suffix: "by_email_suffix", arity: 1},
	KindUsersWithByEmailSuffix:     {base: "users", suffix: "by_email_suffix", arity: 1},
	KindUserWithAccountKeySuffix:   {base: "user", suffix: "account_key_suffix", arity: 1},
	KindUserWithByAccountKeySuffix: {base: "user", suffix: "by_account_key_suffix", arity: 1},
	KindRole:                       {base: "role", arity: 1},
	KindRoleWithByIDSuffix:         {base: "role", suffix: "by_identifier_suffix", arity: 1},
	KindPolicy:                     {base: "policy", arity: 1},
	KindRoleAssignment:             {base: "role_assignment", arity: 1},
	KindRoleAssignmentGroupList:    {base: "role_assignment_group_list", arity: 1},
	KindRoleAssignmentRoleList:     {base: "role_assignment_role_list", arity: 1},
	KindRoleAssignmentWithByRoleSuffix:       {base: "role_assignment", suffix: "by_role_suffix", arity: 1},
	KindRoleAssignmentWithByGroupSuffix:      {base: "role_assignment", suffix: "by_group_suffix", arity: 1},
	KindRoleAssignmentWithByGroupInheritedSuffix: {base: "role_assignment", suffix: "by_group_inherited_suffix", arity: 1},
	KindLocation:         {base: "location", arity: 1},
	KindLocationPath:     {base: "location_path", arity: 1},
	KindContentLocations: {base: "content_locations", arity: 1},
}

// separator joins the namespace, base, argument and suffix segments of an
// identifier. Arguments within the tuple are joined by argSeparator.
const (
	separator    = "-"
	argSeparator = ":"
)

// IdentifierGenerator builds namespaced cache keys and tags for registered
// entity kinds. It is a pure value: generation has no side effects and is
// deterministic for identical inputs, which is what makes the strings usable
// as cache addresses.
type IdentifierGenerator struct {
	namespace string
}

// NewIdentifierGenerator returns a generator producing identifiers prefixed
// with the given namespace. The namespace must itself be a safe key segment.
func NewIdentifierGenerator(namespace string) IdentifierGenerator {
	return IdentifierGenerator{namespace: namespace}
}

// GenerateKey builds the cache key for kind and args.
//
// Keys accept either the kind's full argument tuple or no arguments at all;
// the zero-argument form yields the kind's key prefix (namespace + base, no
// suffix) and is how handlers compose prefix + lookup-argument keys. Any
// other arity is a programming error and fails with an InvalidArgumentError.
//
// asLookup marks the key as belonging to a derived-lookup family. It never
// changes the produced string; it documents, at the call site, that the key
// addresses an alternate view of a canonical entity and therefore must carry
// the canonical entity's tags when filled.
func (g IdentifierGenerator) GenerateKey(kind Kind, asLookup bool, args ...any) (string, error) {
	_ = asLookup
	spec, ok := kinds[kind]
	if !ok {
		return "", &InvalidArgumentError{Argument: "kind", Reason: fmt.Sprintf("unregistered cache identifier kind %q", kind)}
	}
	if len(args) != 0 && len(args) != spec.arity {
		return "", &InvalidArgumentError{
			Argument: "args",
			Reason:   fmt.Sprintf("kind %q takes %d argument(s), got %d", kind, spec.arity, len(args)),
		}
	}
	return g.compose(spec, args, len(args) != 0)
}

// GenerateTag builds the invalidation tag for kind and args. Unlike keys,
// tags always require the kind's full argument tuple.
func (g IdentifierGenerator) GenerateTag(kind Kind, args ...any) (string, error) {
	spec, ok := kinds[kind]
	if !ok {
		return "", &InvalidArgumentError{Argument: "kind", Reason: fmt.Sprintf("unregistered cache identifier kind %q", kind)}
	}
	if len(args) != spec.arity {
		return "", &InvalidArgumentError{
			Argument: "args",
			Reason:   fmt.Sprintf("kind %q takes %d argument(s), got %d", kind, spec.arity, len(args)),
		}
	}
	return g.compose(spec, args, true)
}

func (g IdentifierGenerator) compose(spec kindSpec, args []any, withSuffix bool) (string, error) {
	var b strings.Builder
	b.WriteString(g.namespace)
	b.WriteString(separator)
	b.WriteString(spec.base)
	if len(args) > 0 {
		b.WriteString(separator)
		for i, arg := range args {
			if i > 0 {
				b.WriteString(argSeparator)
			}
			s, err := formatScalar(arg)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	if withSuffix && spec.suffix != "" {
		b.WriteString(separator)
		b.WriteString(spec.suffix)
	}
	return b.String(), nil
}

// formatScalar renders a single identifier argument. Only scalar identifier
// types are accepted; anything else is a caller bug.
func formatScalar(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", &InvalidArgumentError{Argument: "args", Reason: fmt.Sprintf("non-scalar identifier argument of type %T", v)}
	}
}

// InvalidArgumentError reports misuse of the identifier generator: an
// unregistered kind, a wrong argument arity, or a non-scalar argument.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument " + e.Argument + ": " + e.Reason
}
