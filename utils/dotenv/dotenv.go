package dotenv

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

// Runtime environments recognized in SINKEDIN_ENV.
const (
	DevEnv  = "dev"
	TestEnv = "test"
	ProdEnv = "prod"
)

// LoadDotEnvs loads the .env files following the convention:
// https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only needs to be called once in main, other code reads configuration
// through os.Getenv during runtime.
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

func loadDotEnvs(rootPath string) {
	env := os.Getenv("SINKEDIN_ENV")
	if env == "" {
		env = DevEnv
	}

	// .env.[runtime_env].local has highest priority, usually contains
	// credentials and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env contains shared variables, overridden by anything above
	godotenv.Load(rootPath + ".env")
}

// LoadDotEnvsInTests locates the repository root from the test's working
// directory and loads .env.test. Needed because go test runs each package in
// its own directory: https://github.com/joho/godotenv/issues/43
func LoadDotEnvsInTests() error {
	re := regexp.MustCompile(`^(.*sinkedin)`)
	cwd, _ := os.Getwd()
	rootPath := re.Find([]byte(cwd))

	godotenv.Load(string(rootPath) + "/" + ".env.test")
	return nil
}
