// Package json2bas 把画作的路径数据写成 BAS 弹幕脚本。
package json2bas

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"campaint/svg2json"
)

// potrace 输出的坐标放大了 10 倍
const traceScale = 10

const commands = "MLHVCSQTAZmlhvcsqtaz"

var tokenRe = regexp.MustCompile(`-?[0-9]*\.?[0-9]+(?:e[-+]?\d+)?|[` + commands + `]`)

// 每个命令一组参数的个数
func groupSize(cmd byte) int {
	switch cmd {
	case 'H', 'h', 'V', 'v':
		return 1
	case 'M', 'm', 'L', 'l', 'T', 't':
		return 2
	case 'S', 's', 'Q', 'q':
		return 4
	case 'C', 'c':
		return 6
	case 'A', 'a':
		return 7
	}
	return 0
}

// FlipPath 把 y 轴朝上的路径翻转为 y 轴朝下：绝对坐标 y -> viewBoxH - y，相对坐标 dy -> -dy
func FlipPath(d string, viewBoxH float64) string {
	var out []string
	var cmd byte
	var params []float64

	flush := func() {
		size := groupSize(cmd)
		if size == 0 || len(params) == 0 {
			params = params[:0]
			return
		}
		abs := cmd >= 'A' && cmd <= 'Z'
		for i := 0; i < len(params); i += size {
			group := params[i:min(i+size, len(params))]
			out = append(out, formatGroup(flipGroup(cmd, group, abs, viewBoxH)))
		}
		params = params[:0]
	}

	for _, tok := range tokenRe.FindAllString(d, -1) {
		if strings.Contains(commands, tok) {
			flush()
			cmd = tok[0]
			out = append(out, tok)
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		params = append(params, v)
	}
	flush()
	return strings.Join(out, " ")
}

func flipGroup(cmd byte, group []float64, abs bool, h float64) []float64 {
	res := append([]float64(nil), group...)
	switch cmd {
	case 'H', 'h':
		return res
	case 'V':
		res[0] = h - res[0]
		return res
	case 'v':
		res[0] = -res[0]
		return res
	case 'A', 'a':
		// 翻转旋转角、扫描方向和终点 y
		if len(res) == 7 {
			res[2] = -res[2]
			res[4] = 1 - res[4]
			if abs {
				res[6] = h - res[6]
			} else {
				res[6] = -res[6]
			}
		}
		return res
	}
	for i := 1; i < len(res); i += 2 {
		if abs {
			res[i] = h - res[i]
		} else {
			res[i] = -res[i]
		}
	}
	return res
}

func formatGroup(vals []float64) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		if v == 0 {
			v = 0 // -0
		}
		strs[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(strs, " ")
}

// Generate 输出一个显示 durationMs 毫秒的 path 对象。
// stroke 来自 potrace，viewBox 按 traceScale 放大
func Generate(stroke svg2json.Stroke, name string, durationMs int) string {
	w := int(stroke.ViewBox[2] * traceScale)
	h := int(stroke.ViewBox[3] * traceScale)
	color := strings.TrimPrefix(stroke.Color, "#")
	pathData := FlipPath(stroke.PathData(), float64(h))

	return fmt.Sprintf(`let p%[1]s = path{d = "%[2]s" viewBox="0 0 %[3]d %[4]d" width = 100%% fillColor = 0x%[5]s alpha = 0
borderWidth = 15
    borderColor = 0x%[5]s
}
set p%[1]s {alpha = 1} 0ms
then set p%[1]s {} %[6]dms
then set p%[1]s {alpha = 0} 0ms
`, name, pathData, w, h, color, durationMs)
}
