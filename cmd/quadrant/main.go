package main

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"muzzammil.xyz/jsonc"

	"github.com/quadrantdb/quadrant/conf"
	qlog "github.com/quadrantdb/quadrant/log"
	"github.com/quadrantdb/quadrant/server"
)

var arguments struct {
	Conf string      `help:"Path to config file" type:"existingfile" required:""`
	Node int         `help:"Node ID of this server" default:"0"`
	Log  qlog.Config `embed:"" prefix:"log-"`
}

func main() {
	r := &runner{}
	if err := r.run(os.Args[1:], true); err != nil {
		log.Fatal(err.Error())
	}
	select {} // prevent main exiting
}

type runner struct {
	server *server.Server
}

func (r *runner) run(args []string, start bool) error {
	parser, err := kong.New(&arguments)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	b, err := ioutil.ReadFile(arguments.Conf)
	if err != nil {
		return err
	}
	cfg := *conf.NewDefaultConfig()
	// We use jsonc as it supports comments in JSON
	b = jsonc.ToJSON(b)
	if err := json.Unmarshal(b, &cfg); err != nil {
		return err
	}
	cfg.NodeID = arguments.Node
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := arguments.Log.Configure(); err != nil {
		return err
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	r.server = s
	if start {
		if err := s.Start(); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) getServer() *server.Server {
	return r.server
}
