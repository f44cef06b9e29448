package market

import (
	"cardmarket/base"
	"cardmarket/system/market/internal/app"
)

// Module 交易市场组件模块门面
// 封装内部 app，对外只暴露生命周期相关的能力
type Module struct {
	// internalApp 内部应用实例，仅供组件内部使用
	internalApp *app.App
}

// NewModule 使用全局资源创建交易市场组件
func NewModule() *Module {
	return &Module{
		internalApp: app.NewApp(app.Deps{
			DB:     base.DB,
			Log:    base.Logger,
			Auth:   base.UserAuth,
			Cache:  base.Cache,
			Locker: base.Locker,
			MQ:     base.MQ,
			Market: base.Configures.Config.Market,
		}),
	}
}

// Start 启动组件的后台消费者
func (m *Module) Start() error {
	if err := m.internalApp.StartConsumers(); err != nil {
		base.Logger.WithErr(err).Error("启动交易市场消费者失败")
		return err
	}
	return nil
}
