// Package config 애플리케이션 설정 파일의 로드와 유효성 검증을 담당합니다.
//
// 설정 우선순위: 기본값 < JSON 설정 파일 < 환경 변수(ZARASTOCK_ 접두사)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "zara-stock-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// ------------------------------------------------------------------------------------------------
	// 재고 확인 주기 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultCheckIntervalSeconds 재고 확인 사이클 간의 대기 시간 기본값 (5분)
	DefaultCheckIntervalSeconds = 300

	// DefaultProductDelaySeconds 사이클 내 상품 간의 대기 시간 기본값
	DefaultProductDelaySeconds = 2

	// DefaultHeartbeatHours 재고 상태가 변하지 않아도 다시 알림을 보내는 주기 기본값 (24시간)
	DefaultHeartbeatHours = 24

	// DefaultBrowserTimeoutSeconds 브라우저 렌더링 전략의 페이지 로드 제한 시간 기본값
	DefaultBrowserTimeoutSeconds = 60

	// DefaultAPIListenPort 재고 확인 트리거 API의 기본 포트
	DefaultAPIListenPort = 8080
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug    bool           `json:"debug"`
	Telegram TelegramConfig `json:"telegram"`
	Watch    WatchConfig    `json:"watch"`
	API      APIConfig      `json:"api"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Telegram.validate(); err != nil {
		return err
	}

	if err := c.Watch.validate(); err != nil {
		return err
	}

	if err := c.API.validate(); err != nil {
		return err
	}

	return nil
}

// TelegramConfig 텔레그램 봇 토큰 및 알림 수신자 정보를 담는 설정 구조체
type TelegramConfig struct {
	BotToken string  `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatIDs  []int64 `json:"chat_ids" validate:"required,min=1,unique"`
}

func (c *TelegramConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		// Validator 에러를 사용자 친화적인 메시지로 변환한다.
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "BotToken":
					switch fieldErr.Tag() {
					case "required":
						return apperrors.New(apperrors.InvalidInput, "텔레그램 봇 토큰(bot_token)은 필수입니다")
					default:
						return apperrors.New(apperrors.InvalidInput, "텔레그램 봇 토큰(bot_token) 형식이 올바르지 않습니다 (형식: 123456:ABC-DEF...)")
					}
				case "ChatIDs":
					switch fieldErr.Tag() {
					case "unique":
						return apperrors.New(apperrors.InvalidInput, "알림 수신자 목록(chat_ids)에 중복된 ID가 존재합니다")
					default:
						return apperrors.New(apperrors.InvalidInput, "알림 수신자 목록(chat_ids)은 최소 1개 이상이어야 합니다")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	return nil
}

// WatchConfig 감시 대상 상품 목록과 재고 확인 정책을 정의하는 설정 구조체
type WatchConfig struct {
	// Products 감시할 상품 참조 목록입니다.
	// 상품 페이지 URL, 재고 API URL 형태를 모두 지원합니다.
	Products []string `json:"products"`

	CheckIntervalSeconds int `json:"check_interval_seconds" validate:"min=1"`
	ProductDelaySeconds  int `json:"product_delay_seconds" validate:"min=0"`
	HeartbeatHours       int `json:"heartbeat_hours" validate:"min=1"`

	// RequireAllSizes true일 경우 모든 사이즈가 구매 가능해야 재고 있음으로 판정합니다.
	RequireAllSizes bool `json:"require_all_sizes"`

	// MinSizesInStock 재고 있음으로 판정하기 위한 최소 구매 가능 사이즈 개수입니다. (0: 미적용)
	// RequireAllSizes가 true이면 이 값은 무시됩니다.
	MinSizesInStock int `json:"min_sizes_in_stock" validate:"min=0"`

	// SkipOutOfStockNotification true일 경우 품절 결과에 대한 알림을 보내지 않습니다.
	// 상태 추적은 계속 수행되므로 재입고 시점의 알림에는 영향을 주지 않습니다.
	SkipOutOfStockNotification bool `json:"skip_out_of_stock_notification"`

	Browser BrowserConfig `json:"browser"`
}

func (c *WatchConfig) validate() error {
	for i, p := range c.Products {
		if strings.TrimSpace(p) == "" {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("감시 상품 목록(products)의 %d번째 항목이 비어있습니다", i+1))
		}
	}

	// Struct()는 중첩 구조체까지 함께 검증하므로, Browser 전용 에러 메시지가
	// 유지되도록 먼저 위임하고 나머지 필드만 검증한다.
	if err := c.Browser.validate(); err != nil {
		return err
	}

	if err := validate.StructExcept(c, "Browser"); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "CheckIntervalSeconds":
					return apperrors.New(apperrors.InvalidInput, "재고 확인 주기(check_interval_seconds)는 1초 이상이어야 합니다")
				case "ProductDelaySeconds":
					return apperrors.New(apperrors.InvalidInput, "상품 간 대기 시간(product_delay_seconds)은 0초 이상이어야 합니다")
				case "HeartbeatHours":
					return apperrors.New(apperrors.InvalidInput, "재알림 주기(heartbeat_hours)는 1시간 이상이어야 합니다")
				case "MinSizesInStock":
					return apperrors.New(apperrors.InvalidInput, "최소 구매 가능 사이즈 개수(min_sizes_in_stock)는 0 이상이어야 합니다")
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "감시 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	return nil
}

// CheckInterval 재고 확인 사이클 간의 대기 시간을 반환합니다.
func (c *WatchConfig) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// ProductDelay 사이클 내 상품 간의 대기 시간을 반환합니다.
func (c *WatchConfig) ProductDelay() time.Duration {
	return time.Duration(c.ProductDelaySeconds) * time.Second
}

// Heartbeat 상태가 변하지 않아도 다시 알림을 보내는 주기를 반환합니다.
func (c *WatchConfig) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatHours) * time.Hour
}

// BrowserConfig 브라우저 렌더링 전략(Headless Chrome)의 사용 여부와 제한 시간을 정의하는 구조체
type BrowserConfig struct {
	Enabled        bool `json:"enabled"`
	TimeoutSeconds int  `json:"timeout_seconds" validate:"min=1"`
}

func (c *BrowserConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.New(apperrors.InvalidInput, "브라우저 제한 시간(browser.timeout_seconds)은 1초 이상이어야 합니다")
	}
	return nil
}

// Timeout 브라우저 렌더링의 페이지 로드 제한 시간을 반환합니다.
func (c *BrowserConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIConfig 재고 확인 트리거 API 서버 설정 구조체
type APIConfig struct {
	Enabled    bool       `json:"enabled"`
	ListenPort int        `json:"listen_port" validate:"min=1,max=65535"`
	CORS       CORSConfig `json:"cors"`
}

func (c *APIConfig) validate() error {
	if !c.Enabled {
		return nil
	}

	// Struct()는 중첩 구조체까지 함께 검증하므로, CORS 전용 에러 메시지가
	// 유지되도록 먼저 위임하고 나머지 필드만 검증한다.
	if err := c.CORS.validate(); err != nil {
		return err
	}

	if err := validate.StructExcept(c, "CORS"); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.StructField() == "ListenPort" {
					return apperrors.New(apperrors.InvalidInput, "API 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "API 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	return nil
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
		}
	}

	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "cors_origin" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "CORS 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"watch.check_interval_seconds":  DefaultCheckIntervalSeconds,
		"watch.product_delay_seconds":   DefaultProductDelaySeconds,
		"watch.heartbeat_hours":         DefaultHeartbeatHours,
		"watch.browser.timeout_seconds": DefaultBrowserTimeoutSeconds,
		"api.listen_port":               DefaultAPIListenPort,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: ZARASTOCK_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: ZARASTOCK_TELEGRAM__BOT_TOKEN -> telegram.bot_token
	if err := k.Load(env.Provider("ZARASTOCK_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "ZARASTOCK_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
