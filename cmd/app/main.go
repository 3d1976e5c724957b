package main

import (
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
