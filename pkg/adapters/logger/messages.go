package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("zh", l10n.LexiconMap{
		// Run level messages (info)
		"Starting run %s with %d targets":       "开始运行 %s, 共 %d 个平台",
		"Running target %s":                     "正在处理 %s",
		"Run completed successfully":            "运行成功完成",
		"%d of %d targets failed":               "%d/%d 个平台失败",
		"Target %s skipped: %s":                 "跳过 %s: %s",
		"Capture for %s failed: %s":             "%s 截图失败: %s",
		"Captured %s: %d bytes, clip height %d": "%s 截图完成: %d 字节, 裁剪高度 %d",
		"Published to %s: %s":                   "已发布到 %s: %s",
		"Publishing to %s failed: %s":           "发布到 %s 失败: %s",
		"Published story for %s: %s":            "%s 快拍已发布: %s",
		"Story for %s failed: %s":               "%s 快拍失败: %s",
		"Interrupted, shutting down...":         "已中断, 正在退出...",
		"Debug artifacts in %s":                 "调试文件位于 %s",
		"No targets enabled":                    "没有启用的平台",
		"Failed to save run record: %v":         "保存运行记录失败: %v",
		"Summary written to %s":                 "摘要已写入 %s",
		"Failed to write summary: %v":           "写入摘要失败: %v",
		"Capturing %s (%s)":                     "正在截取 %s (%s)",
		"Output saved to %s":                    "已保存到 %s",
		"Checking %s":                           "正在检查 %s",

		// Browser component
		"Launching browser in headless mode": "以无头模式启动浏览器",
		"Launching browser in visible mode":  "以有界面模式启动浏览器",
		"Navigating to %s":                   "正在打开 %s",
		"Browser closed":                     "浏览器已关闭",
		"Setting viewport %dx%d @%.1fx":      "设置视口 %dx%d @%.1fx",

		// Capture component
		"Primary URL failed (%v), trying fallback %s":             "主地址失败 (%v), 尝试备用地址 %s",
		"Height measurement failed, using default: %v":            "高度测量失败, 使用默认值: %v",
		"Content height %dpx, clip %dx%d (capped=%t, default=%t)": "内容高度 %dpx, 裁剪 %dx%d (截断=%t, 默认=%t)",
		"Text fitting failed, capturing unfitted: %v":             "文字适配失败, 按原样截图: %v",
		"Failed to save debug capture: %v":                        "保存调试截图失败: %v",
		"Failed to save fit report: %v":                           "保存适配报告失败: %v",
		"Document not ready after %v, capturing anyway":           "%v 后文档仍未就绪, 继续截图",

		// Fonts component
		"Font injection failed: %v":                          "字体注入失败: %v",
		"Font status polling failed: %v":                     "字体状态轮询失败: %v",
		"Font probe failed: %v":                              "字体探测失败: %v",
		"Fonts not loaded after %v, continuing":              "%v 后字体仍未加载, 继续执行",
		"Fonts settled in %v (loaded=%t, probe height %dpx)": "字体在 %v 内就绪 (已加载=%t, 探针高度 %dpx)",

		// Text fitting component
		"Caption block %s or container %s not found, skipping": "未找到文字块 %s 或容器 %s, 跳过",
		"Caption still overflows after fitting":                "适配后文字仍然溢出",
		"Text fitting complete: font %.2fpx, line height %.2f, %d words dropped, available %dpx": "文字适配完成: 字号 %.2fpx, 行高 %.2f, 删除 %d 个词, 可用高度 %dpx",

		// Story component
		"Story HTML capture failed, drawing frame directly: %v": "快拍 HTML 截图失败, 直接绘制画面: %v",
		"Logo file %s not found, continuing without logo":       "未找到标志文件 %s, 不使用标志",
		"Failed to read logo %s: %v":                            "读取标志 %s 失败: %v",
		"CTA fitting failed: %v":                                "行动号召文字适配失败: %v",
		"CTA sub-text fitted at %.1fpx":                         "行动号召副文字字号 %.1fpx",
		"Failed to save debug story: %v":                        "保存调试快拍失败: %v",

		// Publisher component
		"Uploading media (%d bytes)":                  "正在上传媒体 (%d 字节)",
		"Media uploaded: %s":                          "媒体已上传: %s",
		"Tweet posted: %s":                            "推文已发布: %s",
		"Sending photo to %s (%d bytes)":              "正在发送图片到 %s (%d 字节)",
		"Message sent: %s":                            "消息已发送: %s",
		"Uploading feed photo to page %s (%d bytes)":  "正在上传动态图片到主页 %s (%d 字节)",
		"Feed photo posted: %s":                       "动态图片已发布: %s",
		"Uploading story photo to page %s (%d bytes)": "正在上传快拍图片到主页 %s (%d 字节)",
		"Story photo uploaded: %s":                    "快拍图片已上传: %s",
		"Story created: %q (success=%t)":              "快拍已创建: %q (成功=%t)",
	})
}
