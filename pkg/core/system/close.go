package system

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"cardmarket/pkg/core/logger"
)

type closer struct {
	name string
	f    func() error
}

var (
	closes []closer
	mu     sync.Mutex
	once   sync.Once
)

// RegisterClose 注册退出时需要释放的资源，按注册的逆序释放
func RegisterClose(name string, f func() error) {
	mu.Lock()
	defer mu.Unlock()

	closes = append(closes, closer{name: name, f: f})
}

// Shutdown 释放全部已注册的资源，只执行一次
func Shutdown() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()

		log := logger.GetLogger().WithEntryName("Shutdown")
		for i := len(closes) - 1; i >= 0; i-- {
			if err := closes[i].f(); err != nil {
				log.WithErr(err).WithField("resource", closes[i].name).Warn("释放资源失败")
			}
		}
	})
}

// WatchSignal 收到退出信号时释放资源并退出进程
func WatchSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-ch
		Shutdown()
		os.Exit(0)
	}()
}
