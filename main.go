package main

import (
	"fmt"

	"bitflow/identity-api/api"
	"bitflow/identity-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	addr := fmt.Sprintf(":%d", viper.GetInt("host.port"))

	zap.L().Info("Server starting", zap.String("addr", addr))

	if viper.GetBool("host.ssl.enabled") {
		err = a.Router.RunTLS(addr,
			viper.GetString("host.ssl.certificate_path"),
			viper.GetString("host.ssl.certificate_key_path"))
	} else {
		err = a.Router.Run(addr)
	}

	if err != nil {
		panic(err)
	}
}
