package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "draft not found",
			expected: "NOT_FOUND: draft not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("disk full")
	wrapped := errors.Wrap(baseErr, "failed to write record")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to write record", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
	s.Equal("INTERNAL: failed to write record: disk full", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.NotFound("draft not found").WithMeta("draft_id", "d1")
	wrapped := errors.Wrap(baseErr, "failed to load draft").WithMeta("op", "save")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal("d1", wrapped.Meta["draft_id"])
	s.NotContains(baseErr.Meta, "op")
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("signal: killed")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeDeadlineExceeded, "browser timed out")

	s.True(errors.IsDeadlineExceeded(wrapped))
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err := errors.Wrap(errors.NotFound("missing"), "outer")
	s.True(errors.Is(err, errors.NotFound("anything")))
	s.False(errors.Is(err, errors.Internal("anything")))
}

func (s *ErrorsTestSuite) TestHelpers() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
	s.Equal("missing", errors.GetMessage(errors.NotFound("missing")))
	s.Nil(errors.GetMeta(fmt.Errorf("plain")))
	s.True(errors.IsFailedPrecondition(errors.FailedPreconditionf("no %s", "browser")))
	s.True(errors.IsInternal(errors.Internalf("boom %d", 1)))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	s.Equal(http.StatusOK, errors.CodeOK.HTTPStatus())
	s.Equal(http.StatusBadRequest, errors.CodeInvalidArgument.HTTPStatus())
	s.Equal(http.StatusNotFound, errors.CodeNotFound.HTTPStatus())
	s.Equal(http.StatusPreconditionFailed, errors.CodeFailedPrecondition.HTTPStatus())
	s.Equal(http.StatusGatewayTimeout, errors.CodeDeadlineExceeded.HTTPStatus())
	s.Equal(http.StatusInternalServerError, errors.CodeInternal.HTTPStatus())
	s.Equal(http.StatusInternalServerError, errors.Code("BOGUS").HTTPStatus())
}
