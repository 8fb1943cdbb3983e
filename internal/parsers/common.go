package parsers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// startsWithUpper reports whether s begins with an uppercase letter, the
// PascalCase check JSX-component references use to tell a component
// ("Foo") from a plain element tag ("div").
func startsWithUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// trimAttrQuotes strips a leading/trailing '"' or '\'' from an HTML
// quoted-attribute-value capture's text.
func trimAttrQuotes(s string) string {
	return strings.Trim(s, `"'`)
}

// strPtr is a small convenience since most LanguageConfig extraction hooks
// return *string for an optional field.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// visibilityFromPrefixes checks trimmed content against an ordered list of
// (prefix, tag) pairs, falling back to fallback when nothing matches. Order
// matters: put the most specific prefix (e.g. "pub(crate)") before the
// general one ("pub").
func visibilityFromPrefixes(content string, pairs [][2]string, fallback string) *string {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	for _, pair := range pairs {
		if strings.HasPrefix(trimmed, pair[0]) {
			return strPtr(pair[1])
		}
	}
	return strPtr(fallback)
}

// signatureUpToBraceOrSemi returns the text up to the first '{' (trimmed),
// or up to the first ';' when there is no brace (abstract/interface
// members), matching extract_fn_signature/extract_type_signature in
// rust.rs and its sibling language files.
func signatureUpToBraceOrSemi(content string) *string {
	if idx := strings.IndexByte(content, '{'); idx >= 0 {
		sig := strings.TrimSpace(content[:idx])
		if where := strings.Index(sig, "\nwhere"); where >= 0 {
			sig = strings.TrimSpace(sig[:where])
		}
		return strPtr(sig)
	}
	if idx := strings.IndexByte(content, ';'); idx >= 0 {
		return strPtr(strings.TrimSpace(content[:idx+1]))
	}
	if line, _, found := strings.Cut(content, "\n"); found {
		return strPtr(strings.TrimSpace(line))
	}
	return strPtr(strings.TrimSpace(content))
}

// signatureUpToDelim returns the text up to the first occurrence of delim
// (trimmed), falling back to the first line, for grammars whose header ends
// in something other than '{' (Python's ':').
func signatureUpToDelim(content string, delim byte) *string {
	if idx := strings.IndexByte(content, delim); idx >= 0 {
		return strPtr(strings.TrimSpace(content[:idx]))
	}
	if line, _, found := strings.Cut(content, "\n"); found {
		return strPtr(strings.TrimSpace(line))
	}
	return strPtr(strings.TrimSpace(content))
}

// findParentByKind walks node's ancestor chain looking for the nearest
// ancestor whose Kind() is one of containerKinds, returning the text of its
// nameField child (or, if nameField is "", the text of the first child
// whose Kind() is nameKind).
func findParentByKind(node *sitter.Node, source []byte, containerKinds []string, nameField, nameKind string) *string {
	current := node.Parent()
	for current != nil {
		kind := current.Kind()
		for _, ck := range containerKinds {
			if kind != ck {
				continue
			}
			if nameField != "" {
				if nameNode := current.ChildByFieldName(nameField); nameNode != nil {
					return strPtr(nodeText(nameNode, source))
				}
			}
			for i := uint(0); i < current.ChildCount(); i++ {
				child := current.Child(i)
				if child != nil && child.Kind() == nameKind {
					return strPtr(nodeText(child, source))
				}
			}
		}
		current = current.Parent()
	}
	return nil
}

// collectLeadingComments walks node's preceding siblings, collecting
// consecutive comment nodes (of the given kinds) whose text starts with one
// of docPrefixes, stopping at the first sibling that doesn't qualify.
// skipKinds siblings are transparently skipped (e.g. a doc comment sitting
// above an attribute which sits above the definition).
func collectLeadingComments(node *sitter.Node, source []byte, commentKinds, docPrefixes, skipKinds []string) *string {
	var lines []string
	current := node.PrevSibling()
	for current != nil {
		kind := current.Kind()
		if containsStr(skipKinds, kind) {
			current = current.PrevSibling()
			continue
		}
		if containsStr(commentKinds, kind) {
			text := nodeText(current, source)
			if matchesAnyPrefix(text, docPrefixes) {
				lines = append(lines, text)
				current = current.PrevSibling()
				continue
			}
		}
		break
	}
	reverseStrings(lines)
	if len(lines) == 0 {
		return nil
	}
	return strPtr(strings.Join(lines, "\n"))
}

// collectLeadingAttributes mirrors collectLeadingComments but gathers
// attribute/annotation/decorator nodes instead of doc comments.
func collectLeadingAttributes(node *sitter.Node, source []byte, attrKinds, commentKinds, docPrefixes []string) *string {
	var attrs []string
	current := node.PrevSibling()
	for current != nil {
		kind := current.Kind()
		if containsStr(attrKinds, kind) {
			attrs = append(attrs, nodeText(current, source))
			current = current.PrevSibling()
			continue
		}
		if containsStr(commentKinds, kind) && matchesAnyPrefix(nodeText(current, source), docPrefixes) {
			current = current.PrevSibling()
			continue
		}
		break
	}
	reverseStrings(attrs)
	if len(attrs) == 0 {
		return nil
	}
	return strPtr(strings.Join(attrs, "\n"))
}

// collectChildAnnotations looks for a direct child of kind modifiersKind
// (Java/C#'s "modifiers" node) and collects its own children whose kind is
// in annotationKinds, the way collect_java_annotations/collect_csharp_
// attributes walk the modifiers/attribute_list child instead of siblings.
func collectChildAnnotations(node *sitter.Node, source []byte, modifiersKind string, annotationKinds []string) *string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != modifiersKind {
			continue
		}
		var annots []string
		for j := uint(0); j < child.ChildCount(); j++ {
			sub := child.Child(j)
			if sub != nil && containsStr(annotationKinds, sub.Kind()) {
				annots = append(annots, nodeText(sub, source))
			}
		}
		if len(annots) > 0 {
			return strPtr(strings.Join(annots, "\n"))
		}
	}
	return nil
}

// collectJavadocStyleComment checks only the immediate previous sibling: a
// block comment starting with "/**", or a run of consecutive line comments,
// matching collect_java_doc_comment/collect_csharp_doc_comment (which do not
// skip over annotations the way Rust's doc-comment collector skips
// attribute_item).
func collectJavadocStyleComment(node *sitter.Node, source []byte, blockKind, lineKind, blockPrefix string) *string {
	sib := node.PrevSibling()
	if sib == nil {
		return nil
	}
	if sib.Kind() == blockKind {
		text := nodeText(sib, source)
		if strings.HasPrefix(text, blockPrefix) {
			return strPtr(text)
		}
		return nil
	}
	if sib.Kind() != lineKind {
		return nil
	}
	var lines []string
	current := sib
	for current != nil && current.Kind() == lineKind {
		lines = append(lines, nodeText(current, source))
		current = current.PrevSibling()
	}
	reverseStrings(lines)
	return strPtr(strings.Join(lines, "\n"))
}

func containsStr(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func matchesAnyPrefix(text string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// compileQuery panics on a malformed query the way rust.rs's
// Query::new(...).expect(...) aborts at construction time: a broken query
// is a programming error, not a runtime condition callers can recover from.
func compileQuery(lang *sitter.Language, source, label string) *sitter.Query {
	q, qerr := sitter.NewQuery(lang, source)
	if qerr != nil {
		panic(label + " query must compile: " + qerr.Error())
	}
	return q
}
