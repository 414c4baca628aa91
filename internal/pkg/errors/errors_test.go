package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(FetchFailed, "상품 페이지를 가져올 수 없습니다")

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, FetchFailed, appErr.Type())
	assert.Equal(t, "상품 페이지를 가져올 수 없습니다", appErr.Message())
	assert.NotEmpty(t, appErr.Stack())
	assert.Equal(t, "[FetchFailed] 상품 페이지를 가져올 수 없습니다", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(NotFound, "상품 ID('%s')를 찾을 수 없습니다", "483276547")
	assert.Equal(t, "[NotFound] 상품 ID('483276547')를 찾을 수 없습니다", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("nil 에러는 nil을 반환한다", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, Internal, "무시됨"))
	})

	t.Run("원인 에러를 체이닝한다", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := Wrap(cause, FetchFailed, "재고 API 호출 실패")

		assert.Equal(t, "[FetchFailed] 재고 API 호출 실패: connection refused", err.Error())
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})
}

func TestIs(t *testing.T) {
	cause := New(ParsingFailed, "사이즈 선택자 파싱 실패")
	err := Wrap(cause, FetchFailed, "HTML 전략 실패")

	assert.True(t, Is(err, FetchFailed))
	assert.True(t, Is(err, ParsingFailed))
	assert.False(t, Is(err, DeliveryFailed))
	assert.False(t, Is(nil, FetchFailed))
}

func TestRootCause(t *testing.T) {
	root := stderrors.New("io timeout")
	err := Wrap(Wrap(root, Timeout, "요청 시간 초과"), FetchFailed, "상품 확인 실패")

	assert.Equal(t, root, RootCause(err))
	assert.Nil(t, RootCause(nil))
}

func TestUnderlyingType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "AppError 체인은 가장 안쪽 타입을 반환한다",
			err:  Wrap(New(RendererCrashed, "렌더러 비정상 종료"), FetchFailed, "브라우저 전략 실패"),
			want: RendererCrashed,
		},
		{
			name: "외부 에러 래핑 시 래핑한 타입을 반환한다",
			err:  Wrap(stderrors.New("EOF"), ParsingFailed, "응답 파싱 실패"),
			want: ParsingFailed,
		},
		{
			name: "AppError가 아닌 에러는 Unknown을 반환한다",
			err:  stderrors.New("plain"),
			want: Unknown,
		},
		{
			name: "nil은 Unknown을 반환한다",
			err:  nil,
			want: Unknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UnderlyingType(tc.err))
		})
	}
}

func TestFormat(t *testing.T) {
	err := Wrap(New(ParsingFailed, "JSON 디코딩 실패"), FetchFailed, "API 전략 실패")

	formatted := fmt.Sprintf("%+v", err)
	assert.Contains(t, formatted, "[FetchFailed] API 전략 실패")
	assert.Contains(t, formatted, "Caused by:")
	assert.Contains(t, formatted, "Stack trace:")

	quoted := fmt.Sprintf("%q", err)
	assert.Contains(t, quoted, "API 전략 실패")
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "ResolutionFailed", ResolutionFailed.String())
	assert.Equal(t, "RendererCrashed", RendererCrashed.String())
	assert.Equal(t, "Unknown", ErrorType(999).String())
}
