package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/f3rmion/tilesmith/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "plain",
			err:      errors.NotFound("tilemap not found"),
			expected: "NOT_FOUND: tilemap not found",
		},
		{
			name:     "formatted",
			err:      errors.InvalidArgumentf("bad width %d", -1),
			expected: "INVALID_ARGUMENT: bad width -1",
		},
		{
			name:     "wrapped plain error",
			err:      errors.Wrap(fmt.Errorf("disk full"), "saving tilemap"),
			expected: "INTERNAL: saving tilemap: disk full",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
		})
	}
}

func (s *ErrorsTestSuite) TestWrapKeepsCode() {
	base := errors.NotFound("tilemap not found").WithMeta("name", "demo")
	wrapped := errors.Wrapf(base, "loading %s", "demo")
	twice := fmt.Errorf("command failed: %w", wrapped)

	s.True(errors.IsNotFound(twice))
	s.Equal(errors.CodeNotFound, errors.GetCode(twice))
	s.Equal("demo", errors.GetMeta(twice)["name"])
	s.True(stderrors.Is(twice, errors.NotFound("")))
	s.False(stderrors.Is(twice, errors.Internal("")))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "nothing"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeInternal, "nothing"))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Equal(errors.CodeAlreadyExists, errors.GetCode(errors.AlreadyExists("dup")))
	s.True(errors.IsFailedPrecondition(errors.FailedPrecondition("used")))
	s.True(errors.IsInvalidArgument(errors.WrapWithCode(fmt.Errorf("x"), errors.CodeInvalidArgument, "bad")))
}
