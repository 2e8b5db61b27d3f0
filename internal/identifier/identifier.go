// Package identifier parses owner/name repository references from arguments,
// list files, and wildcard expressions.
package identifier

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	ownerRepositorySeparatorConstant  = "/"
	wildcardNameConstant              = "*"
	listFileCommentPrefixConstant     = "#"
	invalidIdentifierTemplateConstant = "invalid repository identifier %q: expected owner/name"
	listFileReadErrorTemplateConstant = "unable to read repository list %s: %w"
)

// Identifier names one GitHub repository by owner and name.
type Identifier struct {
	Owner string
	Name  string
}

// String renders the identifier in owner/name form.
func (identifier Identifier) String() string {
	return identifier.Owner + ownerRepositorySeparatorConstant + identifier.Name
}

// Parse validates and splits an owner/name token. Both segments must be
// non-empty and free of further slashes.
func Parse(token string) (Identifier, error) {
	trimmedToken := strings.TrimSpace(token)
	segments := strings.Split(trimmedToken, ownerRepositorySeparatorConstant)
	if len(segments) != 2 {
		return Identifier{}, fmt.Errorf(invalidIdentifierTemplateConstant, token)
	}

	ownerSegment := strings.TrimSpace(segments[0])
	nameSegment := strings.TrimSpace(segments[1])
	if len(ownerSegment) == 0 || len(nameSegment) == 0 {
		return Identifier{}, fmt.Errorf(invalidIdentifierTemplateConstant, token)
	}

	return Identifier{Owner: ownerSegment, Name: nameSegment}, nil
}

// ParseList parses every token, failing on the first malformed entry so that
// batch operations reject bad input before any network call.
func ParseList(tokens []string) ([]Identifier, error) {
	identifiers := make([]Identifier, 0, len(tokens))
	for _, token := range tokens {
		parsed, parseError := Parse(token)
		if parseError != nil {
			return nil, parseError
		}
		identifiers = append(identifiers, parsed)
	}
	return identifiers, nil
}

// ReadFile loads identifier tokens from a newline-delimited file. Blank lines
// and lines starting with # are skipped; tokens are returned unparsed so that
// wildcard entries survive.
func ReadFile(path string) ([]string, error) {
	file, openError := os.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(listFileReadErrorTemplateConstant, path, openError)
	}
	defer file.Close()

	var tokens []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, listFileCommentPrefixConstant) {
			continue
		}
		tokens = append(tokens, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(listFileReadErrorTemplateConstant, path, scanError)
	}

	return tokens, nil
}

// RepositoryLister supplies repository names for wildcard expansion.
type RepositoryLister interface {
	ListRepositoryNames(executionContext context.Context, owner string) ([]string, error)
}

// Expand resolves tokens into identifiers, expanding owner/* wildcards
// through the provided lister. Malformed tokens fail the whole batch.
func Expand(executionContext context.Context, tokens []string, lister RepositoryLister) ([]Identifier, error) {
	var identifiers []Identifier
	for _, token := range tokens {
		parsed, parseError := Parse(token)
		if parseError != nil {
			return nil, parseError
		}

		if parsed.Name != wildcardNameConstant {
			identifiers = append(identifiers, parsed)
			continue
		}

		names, listError := lister.ListRepositoryNames(executionContext, parsed.Owner)
		if listError != nil {
			return nil, listError
		}
		for _, name := range names {
			identifiers = append(identifiers, Identifier{Owner: parsed.Owner, Name: name})
		}
	}
	return identifiers, nil
}
