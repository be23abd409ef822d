package test_functional

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type (
	Config struct {
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		MongoURI string `mapstructure:"MONGO_URI"`
		MongoDB  string `mapstructure:"MONGO_DB"`
	}
)

var (
	AppBaseURL url.URL
	Database   *mongo.Database
)

func TestMain(m *testing.M) {
	if os.Getenv("TEST_RUNNER_FUNCTIONAL") == "" {
		fmt.Println("functional tests disabled, set TEST_RUNNER_FUNCTIONAL=1 and point TEST_RUNNER_* at a running instance")
		os.Exit(0)
	}

	viper.SetEnvPrefix("TEST_RUNNER")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MONGO_URI", "mongodb://0.0.0.0:27017")
	viper.SetDefault("MONGO_DB", "secondbrain")

	envs := []string{"HOST", "PORT", "MONGO_URI", "MONGO_DB"}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			panic(err)
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	fmt.Println(cfg)

	AppBaseURL = url.URL{
		Scheme: "http",
		Host:   cfg.Host + ":" + cfg.Port,
	}

	////////

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)

	cl := resty.New()
	healthURL := AppBaseURL
	healthURL.Path = "/health"
	healthURLStr := healthURL.String()
	for {
		if pingCtx.Err() != nil {
			panic(pingCtx.Err())
		}
		resp, err := cl.R().SetContext(pingCtx).Get(healthURLStr)
		if err == nil && resp.StatusCode() == 200 {
			break
		}
		time.Sleep(time.Millisecond * 200)
	}
	cancel()

	fmt.Println("pinged successfully")

	///////

	connCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		panic(err)
	}
	cancel()
	Database = client.Database(cfg.MongoDB)

	os.Exit(m.Run())
}

func FlushDB() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	for _, name := range []string{"users", "contents", "tags", "links"} {
		if err := Database.Collection(name).Drop(ctx); err != nil {
			panic(err)
		}
	}
}
