package lexer

import "testing"

func TestNextToken_Basics(t *testing.T) {
	input := `var x: i32 = 10; x = x + 1;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{VAR, "var"},
		{IDENT, "x"},
		{COLON, ":"},
		{TYPE_I32, "i32"},
		{ASSIGN, "="},
		{INT, "10"},
		{SEMI, ";"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{IDENT, "x"},
		{PLUS, "+"},
		{INT, "1"},
		{SEMI, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken_TwoCharOperatorsPreferredOverSingle(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"a :: b", []TokenType{IDENT, DCOLON, IDENT, EOF}},
		{"a == b", []TokenType{IDENT, EQ, IDENT, EOF}},
		{"a != b", []TokenType{IDENT, NEQ, IDENT, EOF}},
		{"a <= b", []TokenType{IDENT, LE, IDENT, EOF}},
		{"a >= b", []TokenType{IDENT, GE, IDENT, EOF}},
		{"a -> b", []TokenType{IDENT, ARROW, IDENT, EOF}},
		{"f(a...)", []TokenType{IDENT, LPAREN, IDENT, ELLIPSIS, RPAREN, EOF}},
		{"a < b", []TokenType{IDENT, LT, IDENT, EOF}},
	}
	for _, tt := range tests {
		l := New(tt.input)
		for i, want := range tt.expected {
			tok := l.NextToken()
			if tok.Type != want {
				t.Fatalf("%q tests[%d]: expected=%q got=%q", tt.input, i, want, tok.Type)
			}
		}
	}
}

func TestNextToken_LineComment(t *testing.T) {
	l := New("var x = 1; // trailing comment\nvar y = 2;")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{VAR, IDENT, ASSIGN, INT, SEMI, VAR, IDENT, ASSIGN, INT, SEMI, EOF}
	if len(types) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(types), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: expected %q got %q", i, want[i], types[i])
		}
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\r\\d\"e"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	want := "a\nb\tc\r\\d\"e"
	if tok.Value != want {
		t.Fatalf("expected decoded value %q, got %q", want, tok.Value)
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if l.Err() == nil {
		t.Fatal("expected an unterminated string error")
	}
}

func TestNextToken_IntegerTooLarge(t *testing.T) {
	l := New("340282366920938463463374607431768211456") // u128::MAX + 1
	l.NextToken()
	if l.Err() == nil {
		t.Fatal("expected an integer-too-large error")
	}
}

func TestNextToken_IntegerAtU128Max(t *testing.T) {
	l := New("340282366920938463463374607431768211455") // u128::MAX
	tok := l.NextToken()
	if l.Err() != nil {
		t.Fatalf("did not expect an error, got %v", l.Err())
	}
	if tok.Type != INT {
		t.Fatalf("expected INT, got %q", tok.Type)
	}
}

func TestNextToken_UnexpectedCharacter(t *testing.T) {
	l := New("var x = @;")
	for {
		tok := l.NextToken()
		if l.Err() != nil {
			break
		}
		if tok.Type == EOF {
			t.Fatal("expected an unexpected-character error, reached EOF cleanly")
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := "import func extern ret var const comptime struct enum if elseif else while for in to through by where when expect is fallthrough next stop not and or null true false"
	l := New(input)
	want := []TokenType{
		IMPORT, FUNC, EXTERN, RET, VAR, CONST, COMPTIME, STRUCT, ENUM,
		IF, ELSEIF, ELSE, WHILE, FOR, IN, TO, THROUGH, BY, WHERE, WHEN,
		EXPECT, IS, FALLTHROUGH, NEXT, STOP, NOT, AND, OR, NULL, TRUE, FALSE, EOF,
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("tests[%d]: expected=%q got=%q", i, w, tok.Type)
		}
	}
}

func TestNextToken_TypeNames(t *testing.T) {
	input := "bool i8 i16 i32 i64 i128 u8 u16 u32 u64 u128 void str"
	l := New(input)
	want := []TokenType{
		TYPE_BOOL, TYPE_I8, TYPE_I16, TYPE_I32, TYPE_I64, TYPE_I128,
		TYPE_U8, TYPE_U16, TYPE_U32, TYPE_U64, TYPE_U128, TYPE_VOID, TYPE_STR, EOF,
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("tests[%d]: expected=%q got=%q", i, w, tok.Type)
		}
	}
}
