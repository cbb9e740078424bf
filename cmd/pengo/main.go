// Command pengo trains, evaluates, and serves predictions for the
// penguin species classifier.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pengo/dataset"
	"github.com/YuminosukeSato/pengo/metrics"
	"github.com/YuminosukeSato/pengo/neural"
	"github.com/YuminosukeSato/pengo/pipeline"
	pengolog "github.com/YuminosukeSato/pengo/pkg/log"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "train":
		cmdTrain()
	case "evaluate":
		cmdEvaluate()
	case "predict":
		cmdPredict()
	case "init-config":
		cmdInitConfig()
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println("Usage: pengo <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  train        Run the training pipeline from a config file")
	fmt.Println("  evaluate     Load a model and a dataset, print metrics")
	fmt.Println("  predict      Classify one observation with a saved model")
	fmt.Println("  init-config  Write a default YAML config")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func cmdTrain() {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	cfgPath := fs.String("config", "./pengo.yaml", "config path")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	_ = fs.Parse(os.Args[2:])

	pengolog.SetupLogger(*logLevel)

	cfg, err := pipeline.LoadConfig(*cfgPath)
	if err != nil {
		fatal(err)
	}

	report, err := pipeline.Run(context.Background(), cfg)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("train accuracy:      %.4f\n", report.TrainAccuracy)
	fmt.Printf("validation accuracy: %.4f\n", report.ValAccuracy)
	fmt.Println("confusion matrix (rows = true, columns = predicted):")
	printConfusionMatrix(report.ConfusionMatrix, dataset.ClassNames)
	fmt.Println("model written to:", report.ModelPath)
	for _, p := range report.PlotPaths {
		fmt.Println("plot written to:", p)
	}
}

func cmdEvaluate() {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	modelPath := fs.String("model", "penguin_model.json", "path of the saved model")
	dataPath := fs.String("data", "penguins.csv", "path of the penguin CSV")
	_ = fs.Parse(os.Args[2:])

	clf, err := neural.LoadMLPClassifier(*modelPath)
	if err != nil {
		fatal(err)
	}
	table, err := dataset.Load(*dataPath)
	if err != nil {
		fatal(err)
	}

	acc, err := clf.Score(table.X, table.Labels())
	if err != nil {
		fatal(err)
	}

	proba, err := clf.PredictProba(table.X)
	if err != nil {
		fatal(err)
	}
	predVec, err := metrics.ArgmaxRows(proba)
	if err != nil {
		fatal(err)
	}
	trueVec := mat.NewVecDense(table.NumRows(), nil)
	for i, y := range table.Y {
		trueVec.SetVec(i, float64(y))
	}

	cm, err := metrics.ConfusionMatrix(trueVec, predVec, dataset.NumClasses)
	if err != nil {
		fatal(err)
	}
	logLoss, err := metrics.LogLoss(trueVec, proba)
	if err != nil {
		fatal(err)
	}
	f1, err := metrics.F1Score(trueVec, predVec, dataset.NumClasses)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("accuracy: %.4f\n", acc)
	fmt.Printf("log loss: %.4f\n", logLoss)
	fmt.Printf("macro F1: %.4f\n", f1)
	fmt.Println("confusion matrix (rows = true, columns = predicted):")
	printConfusionMatrix(cm, table.ClassNames)
}

func cmdPredict() {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	modelPath := fs.String("model", "penguin_model.json", "path of the saved model")
	culmenLength := fs.Float64("culmen-length", 0, "culmen length in mm")
	culmenDepth := fs.Float64("culmen-depth", 0, "culmen depth in mm")
	flipperLength := fs.Float64("flipper-length", 0, "flipper length in cm (mm/10)")
	bodyMass := fs.Float64("body-mass", 0, "body mass in hectograms (g/100)")
	_ = fs.Parse(os.Args[2:])

	name, err := pipeline.Predict(*modelPath,
		[]float64{*culmenLength, *culmenDepth, *flipperLength, *bodyMass})
	if err != nil {
		fatal(err)
	}
	fmt.Println(name)
}

func cmdInitConfig() {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	path := fs.String("path", "./pengo.yaml", "path to write the config")
	_ = fs.Parse(os.Args[2:])

	if err := pipeline.DefaultConfig().Save(*path); err != nil {
		fatal(err)
	}
	abs, _ := filepath.Abs(*path)
	fmt.Println("config written to:", abs)
}

func printConfusionMatrix(cm [][]int, classNames []string) {
	fmt.Printf("%12s", "")
	for _, name := range classNames {
		fmt.Printf("%12s", name)
	}
	fmt.Println()
	for i, row := range cm {
		fmt.Printf("%12s", classNames[i])
		for _, v := range row {
			fmt.Printf("%12d", v)
		}
		fmt.Println()
	}
}
