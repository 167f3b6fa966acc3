package main

import (
	"flag"
	"os"
	"os/signal"
	"time"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"

	"github.com/ChiuTommy/no-OS/gpio"
	"github.com/ChiuTommy/no-OS/gpio/gpiosysfs"
)

func main() {
	var pinNumber int
	var interval time.Duration
	flag.IntVar(&pinNumber, "pin", 17, "`number` of the GPIO pin driving the LED")
	flag.DurationVar(&interval, "interval", 500*time.Millisecond, "blink interval")
	flag.Parse()

	logger := logrus.New()
	formatter := new(prefixed.TextFormatter)
	formatter.FullTimestamp = true
	logger.SetFormatter(formatter)

	pin, err := gpiosysfs.Open(pinNumber, gpiosysfs.WithLogger(logger))
	if err != nil {
		logger.Fatal(err)
	}
	defer pin.Close()

	if err := pin.DirectionOutput(gpio.Low); err != nil {
		logger.Fatal(err)
	}

	exit := make(chan os.Signal, 2)
	signal.Notify(exit, os.Interrupt)

	level := gpio.High
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			if err := pin.SetValue(level); err != nil {
				logger.Fatal(err)
			}
			if level == gpio.High {
				level = gpio.Low
			} else {
				level = gpio.High
			}
		case <-exit:
			return
		}
	}
}
