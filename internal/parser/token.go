package parser

import "slices"

// TokenKind classifies a word of the input line.
type TokenKind int

const (
	TokenEnd TokenKind = iota
	TokenCommand
	TokenBuiltinCommand
	TokenArgument
	TokenPipe
	TokenReadRedirect
	TokenWriteRedirect
	TokenFilePath
	TokenBackground
)

var tokenKinds = []string{
	"End",
	"Command",
	"BuiltinCommand",
	"Argument",
	"Pipe",
	"ReadRedirect",
	"WriteRedirect",
	"FilePath",
	"Background",
}

func (k TokenKind) String() string {
	if int(k) < 0 || int(k) >= len(tokenKinds) {
		return "Unknown"
	}

	return tokenKinds[k]
}

// Token is one classified word. Pos is the word's position in the line and
// ArgIndex the argument slot it fills (only meaningful for TokenArgument).
type Token struct {
	Kind     TokenKind
	Text     string
	Pos      int
	ArgIndex int
}

var builtinNames = []string{"jobs", "fg", "bg"}

// IsBuiltin reports whether name is handled by the shell itself.
func IsBuiltin(name string) bool {
	return slices.Contains(builtinNames, name)
}

// Builtins returns the names recognised as builtin commands.
func Builtins() []string {
	return slices.Clone(builtinNames)
}

// classify turns the words of one line into tokens terminated by TokenEnd.
func classify(words []string) []Token {
	tokens := make([]Token, 0, len(words)+1)

	prev := Token{Kind: TokenEnd}
	for i, w := range words {
		tok := Token{Text: w, Pos: i, ArgIndex: prev.ArgIndex}

		switch {
		case i == 0 || prev.Kind == TokenPipe:
			tok.ArgIndex = 0
			if IsBuiltin(w) {
				tok.Kind = TokenBuiltinCommand
			} else {
				tok.Kind = TokenCommand
			}
		case w == "|":
			tok.Kind = TokenPipe
		case w == ">":
			tok.Kind = TokenWriteRedirect
		case w == "<":
			tok.Kind = TokenReadRedirect
		case w == "&":
			tok.Kind = TokenBackground
		case prev.Kind == TokenReadRedirect || prev.Kind == TokenWriteRedirect:
			tok.Kind = TokenFilePath
		default:
			tok.Kind = TokenArgument
			tok.ArgIndex = prev.ArgIndex + 1
		}

		tokens = append(tokens, tok)
		prev = tok
	}

	return append(tokens, Token{Kind: TokenEnd, Pos: len(words)})
}
