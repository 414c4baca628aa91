package log

import (
	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	// PanicLevel 복구 불가능한 치명적인 내부 오류 발생 시 사용합니다. 로그 기록 후 panic()을 호출합니다.
	PanicLevel Level = logrus.PanicLevel

	// FatalLevel 프로세스가 더 이상 진행할 수 없을 때 사용합니다. 로그 기록 후 os.Exit(1)을 호출합니다.
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 관리자의 개입이나 버그 수정이 필요한 에러 상황입니다.
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 당장 에러는 아니지만 주의가 필요한 상태입니다.
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel 시스템의 정상적인 작동 흐름이나 상태 변화를 기록합니다.
	InfoLevel Level = logrus.InfoLevel

	// DebugLevel 개발 및 테스트 단계의 상세 정보를 기록합니다.
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel Debug 레벨보다 더 세밀한 데이터 흐름을 추적합니다.
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

// Fields logrus.Fields의 별칭입니다.
type Fields = logrus.Fields

// Entry logrus.Entry의 별칭입니다.
type Entry = logrus.Entry

// Hook logrus.Hook의 별칭입니다.
type Hook = logrus.Hook

// Logger logrus.Logger의 별칭입니다.
type Logger = logrus.Logger

// Formatter logrus.Formatter의 별칭입니다.
type Formatter = logrus.Formatter

// TextFormatter logrus.TextFormatter의 별칭입니다.
type TextFormatter = logrus.TextFormatter
