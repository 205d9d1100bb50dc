package main

import (
	"log"
	"os"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/storage/database"
	sqlxrepos "github.com/trezcool/itsite/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	if conf.Database.Engine == database.Memory {
		logger.Fatal("the admin commands need a SQL database; the in-memory engine is per process")
	}
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:      db.DB,
		engine:  conf.Database.Engine,
		usrRepo: sqlxrepos.NewUserRepository(sqlxrepos.New(db)),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
