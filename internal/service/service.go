// Package service 애플리케이션을 구성하는 서비스들의 공통 생명주기 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션에서 구동되는 모든 서비스가 구현해야 하는 인터페이스입니다.
//
// Start 호출 전에 호출자가 serviceStopWG.Add(1)을 수행하며, 서비스는
// serviceStopCtx의 취소 신호를 받아 종료를 완료한 시점에 serviceStopWG.Done()을
// 호출할 책임을 가집니다. Start가 에러를 반환하는 경우에도 Done() 호출은 보장되어야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
