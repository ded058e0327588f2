package adminapi

import (
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/craftbond/sitecms/internal/webserver"
)

var startTime = time.Now()

func registerStatusRoutes() {
	webserver.ApiGET("/system/status", systemStatus)
}

// systemStatus reports host and process level health for the admin dashboard.
func systemStatus(c echo.Context) error {
	status := map[string]interface{}{
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"pid":        os.Getpid(),
		"uptime_sec": int64(time.Since(startTime).Seconds()),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["mem_total"] = vm.Total
		status["mem_used"] = vm.Used
		status["mem_percent"] = vm.UsedPercent
	}
	if du, err := disk.Usage(appctx.Assets().Root()); err == nil {
		status["disk_total"] = du.Total
		status["disk_used"] = du.Used
		status["disk_percent"] = du.UsedPercent
	}
	if info, err := host.Info(); err == nil {
		status["hostname"] = info.Hostname
		status["os"] = info.OS
		status["platform"] = info.Platform
	}

	return ok(c, status)
}
