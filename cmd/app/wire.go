//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faqbot/internal/bootstrap"
	"github.com/yanqian/faqbot/internal/domain/faq"
	"github.com/yanqian/faqbot/internal/infra/config"
	httpiface "github.com/yanqian/faqbot/internal/interface/http"
	"github.com/yanqian/faqbot/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.ProvideFAQConfig,
		bootstrap.ProvideNormalizer,
		bootstrap.ProvideFAQSource,
		bootstrap.ProvideFAQStore,
		bootstrap.ProvideRunners,
		faq.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
