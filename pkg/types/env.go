package types

type EnvName string

const (
	EnvProd  = EnvName("prod")
	EnvDev   = EnvName("dev")
	EnvLocal = EnvName("local")
)

type ExchangeName string

const (
	ExchangeDummy   = ExchangeName("dummy") // test doubles
	ExchangeBinance = ExchangeName("binance")
)
