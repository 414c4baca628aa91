// Package browser 헤드리스 브라우저로 상품 페이지를 렌더링하는 기능을 제공합니다.
//
// 봇 차단 페이지나 자바스크립트 렌더링이 필요한 페이지에 대한 마지막 수단으로,
// 브라우저 핸들은 프로세스 전체에서 하나만 생성하여 재사용합니다.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	apperrors "github.com/darkkaiser/zara-stock-server/internal/pkg/errors"
	applog "github.com/darkkaiser/zara-stock-server/pkg/log"
)

const (
	// domSettleDelay 페이지 로드 후 동적 콘텐츠가 채워지기를 기다리는 시간
	domSettleDelay = 3 * time.Second

	// dismissInterstitialScript 지역 선택 안내 화면이 떠 있는 경우 닫아주는 스크립트
	dismissInterstitialScript = `(() => {
		const btn = document.querySelector('button[data-qa-action="stay-in-store"]')
			|| document.querySelector('[data-qa-action="go-to-store"]');
		if (btn) { btn.click(); return true; }
		return false;
	})()`
)

// Renderer 페이지를 렌더링하여 최종 DOM의 HTML을 반환하는 인터페이스입니다.
type Renderer interface {
	// RenderHTML 지정된 URL의 페이지를 렌더링한 뒤 문서 전체의 HTML을 반환합니다.
	//
	// 브라우저 핸들 자체가 손상되어 재생성이 필요한 경우 RendererCrashed 타입의
	// 에러를 반환합니다.
	RenderHTML(ctx context.Context, url string) (string, error)

	// Recreate 손상된 브라우저 핸들을 폐기하고 새로 생성합니다.
	Recreate() error

	Close()
}

// ChromeRenderer chromedp 기반의 Renderer 구현체입니다.
type ChromeRenderer struct {
	timeout time.Duration

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
}

var _ Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer 새로운 ChromeRenderer를 생성하고 브라우저 핸들을 초기화합니다.
func NewChromeRenderer(timeout time.Duration) (*ChromeRenderer, error) {
	r := &ChromeRenderer{
		timeout: timeout,
	}
	if err := r.createHandle(); err != nil {
		return nil, err
	}
	return r, nil
}

// createHandle 헤드리스 크롬 프로세스를 시작하고 장수명 브라우저 컨텍스트를 생성합니다.
func (r *ChromeRenderer) createHandle() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "en-GB"),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// 첫 렌더링 지연을 줄이기 위해 브라우저 프로세스를 미리 기동합니다.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return apperrors.Wrap(err, apperrors.RendererCrashed, "헤드리스 브라우저 기동에 실패했습니다")
	}

	r.allocCtx = allocCtx
	r.allocCancel = allocCancel
	r.browserCtx = browserCtx
	r.browserStop = browserStop

	return nil
}

func (r *ChromeRenderer) RenderHTML(ctx context.Context, url string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx == nil {
		return "", apperrors.New(apperrors.RendererCrashed, "브라우저 핸들이 초기화되지 않았습니다")
	}

	// 탭 하나를 새로 열어 렌더링하고, 완료 후 탭은 닫습니다.
	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()

	runCtx, runCancel := context.WithTimeout(tabCtx, r.timeout)
	defer runCancel()

	// 호출자 컨텍스트가 취소되면 진행중인 렌더링도 중단합니다.
	stopWatch := context.AfterFunc(ctx, runCancel)
	defer stopWatch()

	var dismissed bool
	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(dismissInterstitialScript, &dismissed),
		chromedp.Sleep(domSettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		// 브라우저 컨텍스트 자체가 종료된 경우에만 핸들 손상으로 분류합니다.
		// 페이지 단위의 제한시간 초과나 탐색 실패는 해당 상품 확인의 실패일 뿐입니다.
		if r.browserCtx.Err() != nil {
			return "", apperrors.Wrap(err, apperrors.RendererCrashed, "브라우저 핸들이 손상되었습니다")
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return "", apperrors.Wrap(err, apperrors.FetchFailed, "페이지 렌더링 제한시간을 초과했습니다")
		}
		return "", apperrors.Wrap(err, apperrors.FetchFailed, "페이지 렌더링에 실패했습니다")
	}

	if dismissed {
		applog.WithComponent("watcher.browser").Debug("지역 선택 안내 화면을 닫았습니다.")
	}

	return html, nil
}

func (r *ChromeRenderer) Recreate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	applog.WithComponent("watcher.browser").Warn("브라우저 핸들을 재생성합니다.")

	r.closeHandle()
	return r.createHandle()
}

func (r *ChromeRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeHandle()
}

func (r *ChromeRenderer) closeHandle() {
	if r.browserStop != nil {
		r.browserStop()
		r.browserStop = nil
		r.browserCtx = nil
	}
	if r.allocCancel != nil {
		r.allocCancel()
		r.allocCancel = nil
		r.allocCtx = nil
	}
}
