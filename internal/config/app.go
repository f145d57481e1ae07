package config

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
	Table  TableConfig
	Policy PolicyConfig
}

// LoadApp reads .env files first and then the environment. Values already
// exported in the environment win over file values.
func LoadApp(envFiles ...string) (AppConfig, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return AppConfig{}, err
	}
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	tableCfg, err := LoadTable()
	if err != nil {
		return AppConfig{}, err
	}
	policyCfg, err := LoadPolicy()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
		Table:  tableCfg,
		Policy: policyCfg,
	}, nil
}
