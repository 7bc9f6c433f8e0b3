// Package main provides localization for the forecastbot CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Simplified Chinese translations for CLI messages.
	l10n.Register("zh", l10n.LexiconMap{
		// Root command
		"Capture the daily forecast card and post it to social platforms": "截取每日运势卡片并发布到社交平台",
		"error": "错误",

		// Global flags
		"YAML configuration file": "YAML 配置文件",
		"Environment file loaded before the configuration":                               "在加载配置之前读取的环境变量文件",
		"Log level (debug, info, warn, error)":                                           "日志级别 (debug, info, warn, error)",
		"Suppress all log output":                                                        "不输出任何日志",
		"Write debug artifacts":                                                          "输出调试文件",
		"Directory for debug artifacts":                                                  "调试文件目录",
		"Path to Chrome executable (falls back to CHROME_PATH env, then system default)": "Chrome 可执行文件路径 (其次使用 CHROME_PATH 环境变量, 最后使用系统默认)",
		"Browser engine (chromedp or rod)":                                               "浏览器引擎 (chromedp 或 rod)",
		"Run browser in non-headless mode":                                               "以有界面模式运行浏览器",

		// Publish commands
		"Capture without publishing":                 "只截图, 不发布",
		"Write a Markdown run summary to this path":  "将 Markdown 运行摘要写入该路径",
		"Capture and publish to all enabled targets": "截图并发布到所有已启用的平台",
		"Capture and publish to a single target":     "截图并发布到单个平台",

		// Capture command
		"Capture a share card to a PNG file":                      "将分享卡片保存为 PNG 文件",
		"Output PNG file path":                                    "输出 PNG 文件路径",
		"Override the target preset (landscape, portrait, story)": "覆盖平台预设 (landscape, portrait, story)",
		"Override the share card URL":                             "覆盖分享卡片 URL",
		"Also render the story frame to this path":                "同时将快拍画面保存到该路径",

		// Verify command
		"Check credentials and share card endpoints": "检查凭据和分享卡片地址",
		"missing": "缺少",

		// Version command
		"Show version information": "显示版本信息",
		"forecastbot version %s":   "forecastbot 版本 %s",

		// Summary table
		"Target":            "平台",
		"Status":            "状态",
		"Post":              "帖子",
		"Duration":          "耗时",
		"Error":             "错误",
		"Run":               "运行",
		"targets succeeded": "个平台成功",
		"succeeded":         "成功",
		"failed":            "失败",
		"skipped":           "已跳过",
	})
}
