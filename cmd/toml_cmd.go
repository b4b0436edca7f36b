package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/dzjyyds666/tq/parse"
	"github.com/dzjyyds666/tq/parse/toml"
	"github.com/dzjyyds666/tq/pkg"
	"github.com/spf13/cobra"
)

type TomlParams struct {
	Find   string `json:"find"`   // 查找的key
	Input  string `json:"input"`  // 输入文件路径
	Output string `json:"output"` // 输出文件地址
}

var params *TomlParams

var tomlCmd = &cobra.Command{
	Use:   "toml",
	Short: "toml parse tools",
	Run:   tomlRun,
}

func init() {
	params = &TomlParams{}
	tomlCmd.Flags().StringVarP(&params.Find, "find", "f", "", "find")
	tomlCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path")
	tomlCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
}

func tomlRun(cmd *cobra.Command, args []string) {
	if len(params.Input) == 0 {
		fmt.Println("no input file path")
		return
	}
	exist, err := pkg.CheckFileExist(params.Input)
	if err != nil {
		fmt.Println("check file exist error:", err)
		return
	}
	if !exist {
		fmt.Println("input file not exist")
		return
	}

	root, err := parse.TomlFile(params.Input)
	if err != nil {
		fmt.Println("parse toml error:", err)
		return
	}

	var node toml.Node = root
	if len(params.Find) > 0 {
		n, ok := toml.Get(root, strings.Split(params.Find, ".")...)
		if !ok {
			fmt.Println("key not found:", params.Find)
			return
		}
		node = n
	}

	if len(params.Output) > 0 {
		data, err := json.MarshalIndent(toml.ToUntyped(node), "", "  ")
		if err != nil {
			fmt.Println("encode output error:", err)
			return
		}
		if err := os.WriteFile(params.Output, data, 0644); err != nil {
			fmt.Println("write output error:", err)
			return
		}
		return
	}
	spew.Dump(toml.ToUntyped(node))
}
