package app

import (
	"cardmarket/system/market"
)

// App 应用组合根，持有各组件的模块门面
type App struct {
	MarketModule *market.Module
}

// NewApp 创建全部组件，依赖 base 中的全局资源已初始化
func NewApp() *App {
	return &App{
		MarketModule: market.NewModule(),
	}
}

// Start 启动各组件的后台任务
func (a *App) Start() error {
	return a.MarketModule.Start()
}
