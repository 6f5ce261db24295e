package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"github.com/dgraph-io/badger/v3"

	"github.com/roaminroe/mailtable/internal/store"
	"github.com/roaminroe/mailtable/internal/table"
	"github.com/roaminroe/mailtable/internal/util"

	log "github.com/koinos/koinos-log-golang"
	koinosUtil "github.com/koinos/koinos-util-golang"

	flag "github.com/spf13/pflag"
)

const (
	basedirOption    = "basedir"
	instanceIDOption = "instance-id"
	logLevelOption   = "log-level"

	backendOption = "backend"
	tableOption   = "table"
	sourceOption  = "source"
	serviceOption = "service"

	lookupOption  = "lookup"
	checkOption   = "check"
	updateOption  = "update"
	makemapOption = "makemap"
)

const (
	basedirDefault    = ".mailtable"
	instanceIDDefault = ""
	logLevelDefault   = "info"

	backendDefault = "static"
	tableDefault   = "main"
	serviceDefault = "alias"

	emptyDefault = ""
)

const (
	appName = "mailtable"
	logDir  = "logs"
)

func main() {
	baseDir := flag.StringP(basedirOption, "d", basedirDefault, "the base directory")
	instanceID := flag.StringP(instanceIDOption, "i", instanceIDDefault, "The instance ID to identify this invocation")
	logLevel := flag.StringP(logLevelOption, "l", logLevelDefault, "The log filtering level (debug, info, warn, error)")

	backend := flag.StringP(backendOption, "b", backendDefault, "The table backend (static or db)")
	tableName := flag.StringP(tableOption, "t", tableDefault, "The table name")
	source := flag.StringP(sourceOption, "s", emptyDefault, "The table source: a configuration file for the static backend, a store directory for the db backend")
	service := flag.StringP(serviceOption, "k", serviceDefault, "The service to decode values as (alias, virtual, credentials, netaddr)")

	lookup := flag.StringP(lookupOption, "q", emptyDefault, "Look up the given key and print the decoded record")
	check := flag.StringP(checkOption, "c", emptyDefault, "Check whether the given key exists in the table")
	update := flag.StringP(updateOption, "u", emptyDefault, "Reload the table from the given configuration file before performing lookups")
	makemap := flag.StringP(makemapOption, "m", emptyDefault, "Compile the given flat file into the store directory named by --source, then exit")

	flag.Parse()

	*baseDir = koinosUtil.InitBaseDir(*baseDir)

	yamlConfig := util.InitYamlConfig(*baseDir)

	*logLevel = koinosUtil.GetStringOption(logLevelOption, logLevelDefault, *logLevel, yamlConfig.Mailtable, yamlConfig.Global)
	*instanceID = koinosUtil.GetStringOption(instanceIDOption, koinosUtil.GenerateBase58ID(5), *instanceID, yamlConfig.Mailtable, yamlConfig.Global)
	*backend = koinosUtil.GetStringOption(backendOption, backendDefault, *backend, yamlConfig.Mailtable, yamlConfig.Global)
	*tableName = koinosUtil.GetStringOption(tableOption, tableDefault, *tableName, yamlConfig.Mailtable, yamlConfig.Global)
	*source = koinosUtil.GetStringOption(sourceOption, emptyDefault, *source, yamlConfig.Mailtable, yamlConfig.Global)
	*service = koinosUtil.GetStringOption(serviceOption, serviceDefault, *service, yamlConfig.Mailtable, yamlConfig.Global)

	appID := fmt.Sprintf("%s.%s", appName, *instanceID)

	// Initialize logger
	logFilename := path.Join(koinosUtil.GetAppDir(*baseDir, appName), logDir, appName+".log")
	err := log.InitLogger(*logLevel, false, logFilename, appID)
	if err != nil {
		panic(fmt.Sprintf("Invalid log-level: %s. Please choose one of: debug, info, warn, error", *logLevel))
	}

	if *makemap != "" {
		if *source == "" {
			log.Error("makemap requires a store directory via --source")
			os.Exit(1)
		}
		if err := makeMap(*makemap, *source); err != nil {
			log.Errorf("makemap failed: %v", err)
			os.Exit(1)
		}
		return
	}

	svc, err := table.ParseService(*service)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	config := *source
	if *backend == "static" {
		if config, err = readSource(*source); err != nil {
			log.Errorf("cannot read table source: %v", err)
			os.Exit(1)
		}
	}

	t, err := table.New(*backend, *tableName, config)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	if err := t.Config(); err != nil {
		log.Errorf("cannot configure table %q: %v", t.Name(), err)
		os.Exit(1)
	}

	if *update != "" {
		newConfig, err := readSource(*update)
		if err != nil {
			log.Errorf("cannot read update source: %v", err)
			os.Exit(1)
		}
		if err := t.Update(newConfig); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	}

	handle, err := t.Open()
	if err != nil {
		log.Errorf("cannot open table %q: %v", t.Name(), err)
		os.Exit(1)
	}
	defer handle.Close()

	if *lookup != "" {
		record, found, err := handle.Lookup(*lookup, svc)
		if err != nil {
			log.Errorf("lookup %q: %v", *lookup, err)
			os.Exit(1)
		}
		if !found {
			log.Infof("key %q not found in table %q", *lookup, t.Name())
			os.Exit(1)
		}
		printRecord(*lookup, record)
	}

	if *check != "" {
		ok, err := handle.Compare(*check, svc, func(key, entryKey string) bool {
			return key == entryKey
		})
		if err != nil {
			log.Errorf("check %q: %v", *check, err)
			os.Exit(1)
		}
		if !ok {
			log.Infof("key %q not present in table %q", *check, t.Name())
			os.Exit(1)
		}
		log.Infof("key %q present in table %q", *check, t.Name())
	}
}

func readSource(sourcePath string) (string, error) {
	if sourcePath == "" {
		return "", nil
	}
	data, err := ioutil.ReadFile(sourcePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// makeMap compiles a flat "key value" file into a badger store so that the
// db backend can serve it read-only.
func makeMap(sourcePath string, dbDir string) error {
	config, err := readSource(sourcePath)
	if err != nil {
		return err
	}

	entries, err := table.ParseConfig(config)
	if err != nil {
		return err
	}

	koinosUtil.EnsureDir(dbDir)
	log.Infof("Opening database at %s", dbDir)

	dbOpts := badger.DefaultOptions(dbDir)
	dbOpts.Logger = store.BadgerZapLogger{}
	backend, err := store.NewBadgerBackend(dbOpts)
	if err != nil {
		return err
	}
	defer backend.Close()

	for _, e := range entries {
		if err := backend.Put([]byte(e.Key), []byte(e.Value)); err != nil {
			return err
		}
	}

	log.Infof("Wrote %d entries to %s", len(entries), dbDir)
	return nil
}

func printRecord(key string, record table.Record) {
	switch r := record.(type) {
	case nil:
		log.Infof("key %q matched with no record", key)
	case *table.Credentials:
		log.Infof("credentials for %q: username=%s password=%s", key, r.Username, r.Password)
	case *table.AliasExpansion:
		log.Infof("alias %q expands to %d node(s)", key, len(r.Nodes))
		for _, node := range r.Nodes {
			printNode(node)
		}
	case *table.VirtualExpansion:
		log.Infof("virtual %q expands to %d node(s)", key, len(r.Nodes))
		for _, node := range r.Nodes {
			printNode(node)
		}
	case *table.NetAddr:
		log.Infof("netaddr for %q: %s", key, r)
	default:
		log.Warnf("unknown record type for %q", key)
	}
}

func printNode(node table.ExpandNode) {
	switch node.Type {
	case table.ExpandAddress:
		log.Infof("  %s: %s@%s", node.Type, node.User, node.Domain)
	case table.ExpandUsername:
		log.Infof("  %s: %s", node.Type, node.User)
	default:
		log.Infof("  %s: %s", node.Type, node.Path)
	}
}
