package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bluele/gcache"

	_ "github.com/yuhaohwang/bilistream-hook/src/cmd/bilistream-hook/internal"
	"github.com/yuhaohwang/bilistream-hook/src/cmd/bilistream-hook/internal/flag"
	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/consts"
	"github.com/yuhaohwang/bilistream-hook/src/cookiemgmt"
	"github.com/yuhaohwang/bilistream-hook/src/hook"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
	"github.com/yuhaohwang/bilistream-hook/src/log"
	"github.com/yuhaohwang/bilistream-hook/src/metrics"
	"github.com/yuhaohwang/bilistream-hook/src/pkg/events"
	"github.com/yuhaohwang/bilistream-hook/src/refresher"
	"github.com/yuhaohwang/bilistream-hook/src/servers"
)

// getConfig 函数用于获取程序的配置信息。
func getConfig() (*configs.Config, error) {
	var config *configs.Config

	switch {
	case *flag.Conf != "":
		c, err := configs.NewConfigWithFile(*flag.Conf)
		if err != nil {
			return nil, err
		}
		config = c
	default:
		// 没有指定配置文件时，优先使用可执行文件旁边的 config.yml。
		if c, err := getConfigBesidesExecutable(); err == nil {
			config = c
		} else {
			config = flag.GenConfigFromFlags()
		}
	}
	if *flag.Debug {
		config.Debug = true
	}
	// 命令行显式指定的画质总是生效。
	if *flag.Qn > 0 {
		config.UseHostQn = true
	}
	return config, config.Verify()
}

// getConfigBesidesExecutable 函数用于获取可执行文件旁边的配置信息。
func getConfigBesidesExecutable() (*configs.Config, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return configs.NewConfigWithFile(filepath.Join(filepath.Dir(exePath), "config.yml"))
}

func main() {
	config, err := getConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if *flag.Room == "" && !config.RPC.Enable {
		fmt.Fprintln(os.Stderr, "未指定房间号，也没有启用RPC服务器，无事可做")
		os.Exit(1)
	}

	inst := new(instance.Instance)
	inst.Config = config
	inst.Cache = gcache.New(1024).LRU().Build()
	ctx := instance.WithInstance(context.Background(), inst)

	logger := log.New(ctx)
	logger.Infof("%s 版本: %s", consts.AppName, consts.AppVersion)
	if config.File != "" {
		logger.Debugf("配置路径: %s.", config.File)
	} else {
		logger.Debugf("未使用配置文件，标志: %s 被使用.", os.Args)
	}
	logger.Debugf("%+v", consts.AppInfo)

	events.NewDispatcher(ctx)

	cm := cookiemgmt.NewManager(ctx)
	if err := cm.Start(ctx); err != nil {
		logger.Fatalf("初始化 Cookie 管理失败，错误: %s", err)
	}
	h := hook.NewHook(ctx)
	if err := h.Start(ctx); err != nil {
		logger.Fatalf("初始化直播流钩子失败，错误: %s", err)
	}

	// 一次性模式：输出地址后退出，没有可用地址时退出码为 1。
	if *flag.Room != "" {
		u, err := h.OnFetchStreamUrl(ctx, *flag.Room, *flag.Qn)
		if err != nil {
			logger.WithError(err).Error("获取直播流失败")
			fmt.Println("null")
			os.Exit(1)
		}
		fmt.Println(u)
		return
	}

	collector := metrics.NewCollector(ctx)
	if err := collector.Start(ctx); err != nil {
		logger.Fatalf("初始化指标收集器失败，错误: %s", err)
	}
	r := refresher.NewRefresher(ctx)
	if err := r.Start(ctx); err != nil {
		logger.Fatalf("初始化 Cookie 预取失败，错误: %s", err)
	}
	if err := servers.NewServer(ctx).Start(ctx); err != nil {
		logger.WithError(err).Fatalf("初始化服务器失败")
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		for _, m := range []interfaces.Module{inst.CookieRefresher, collector, inst.Hook, inst.CookieManager} {
			m.Close(ctx)
		}
		inst.Server.Close(ctx)
	}()

	inst.WaitGroup.Wait()
	logger.Info("再见~")
}
