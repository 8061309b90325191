// Package notifykit wires the notification dispatch stack into a runnable
// application: manifest registry, template rendering, channel pipeline,
// idempotent routing, the delivery queue worker and the provider webhook
// surface.
//
// The packages under pkg/ are independently usable; this package only
// assembles them from environment configuration and application-supplied
// transports:
//
//	var cfg notifykit.Config
//	config.MustLoad(&cfg)
//
//	app, err := notifykit.New(ctx, cfg, notifykit.Deps{
//		Manifests:    manifests,
//		Templates:    templates.NewFSLoader(os.DirFS("templates"), "."),
//		Translations: i18n.NewFSAdapter(os.DirFS("translations"), "."),
//		Transports: map[channel.Channel]notifykit.TransportFunc{
//			channel.Email: mail.Send,
//			channel.SMS:   sms.Send,
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer app.Close()
//
//	if err := app.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Run blocks serving HTTP (health probes and webhook routes) and processing
// queued deliveries until the context is canceled.
package notifykit
