package main

import (
	"github.com/mashson/order-app/internal/app"
	"github.com/mashson/order-app/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
