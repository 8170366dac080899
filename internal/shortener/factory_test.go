package shortener

import (
	"testing"
)

func TestNewGenerator(t *testing.T) {
	testCases := []struct {
		name           string
		config         Config
		expectedType   string
		expectedLength int
		shouldError    bool
	}{
		{
			name:           "Default config",
			config:         DefaultConfig(),
			expectedType:   TypeRandom,
			expectedLength: 6,
		},
		{
			name:           "Longer codes",
			config:         Config{Length: 10, MaxAttempts: 5},
			expectedType:   TypeRandom,
			expectedLength: 10,
		},
		{
			name:        "Length below minimum",
			config:      Config{Length: 2, MaxAttempts: 5},
			shouldError: true,
		},
		{
			name:        "Length above maximum",
			config:      Config{Length: 33, MaxAttempts: 5},
			shouldError: true,
		},
		{
			name:        "Zero attempts",
			config:      Config{Length: 6, MaxAttempts: 0},
			shouldError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			generator, err := NewGenerator(tc.config)

			if tc.shouldError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if generator.Type() != tc.expectedType {
				t.Errorf("Expected generator type %s, got %s", tc.expectedType, generator.Type())
			}

			if generator.Length() != tc.expectedLength {
				t.Errorf("Expected length %d, got %d", tc.expectedLength, generator.Length())
			}

			code := generator.GenerateShortCode()
			if len(code) != tc.expectedLength {
				t.Errorf("Expected code of length %d, got %q", tc.expectedLength, code)
			}
		})
	}
}
