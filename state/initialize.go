package state

import (
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		DefaultComponents: map[string][]byte{
			"card": []byte(`<div data-sads-component="card"
     data-sads-bg-color="surface"
     data-sads-padding="m"
     data-sads-border-radius="m"
     data-sads-shadow="m">
  <h3 data-sads-element="title"
      data-sads-text-color="text-primary"
      data-sads-font-size="l"
      data-sads-font-weight="bold">Card title</h3>
  <p data-sads-element="body"
     data-sads-text-color="text-secondary"
     data-sads-margin-top="s">Body copy demonstrating themed text colors.</p>
</div>`),
			"hero": []byte(`<section data-sads-component="hero"
         data-sads-layout-type="stack"
         data-sads-bg-color="background"
         data-sads-padding="xl"
         data-sads-text-align="center"
         data-sads-responsive='[{"breakpoint": "mobile", "styles": {"padding": "m"}}]'>
  <h1 data-sads-element="title"
      data-sads-text-color="text-primary"
      data-sads-font-size="xxl"
      data-sads-responsive='[{"breakpoint": "mobile", "styles": {"font-size": "xl"}}]'>Hero heading</h1>
  <p data-sads-element="tagline"
     data-sads-text-color="text-secondary"
     data-sads-max-width="narrow"
     data-sads-margin="auto">Tagline constrained to a readable measure.</p>
</section>`),
			"notice": []byte(`<aside data-sads-component="notice"
       data-sads-bg-color="surface"
       data-sads-border-width="1px"
       data-sads-border-style="solid"
       data-sads-border-color="border-light"
       data-sads-border-radius="s"
       data-sads-padding="s">
  <span data-sads-element="label"
        data-sads-text-color="accent"
        data-sads-font-weight="medium">Heads up:</span>
  <span data-sads-element="text"
        data-sads-text-color="text-primary">borders pick up theme tokens too.</span>
</aside>`),
			"actions": []byte(`<nav data-sads-component="actions"
     data-sads-display="flex"
     data-sads-gap="s"
     data-sads-flex-justify="center"
     data-sads-responsive='[{"breakpoint": "mobile", "styles": {"flex-direction": "column"}}]'>
  <a href="#" data-sads-element="primary"
     data-sads-bg-color="primary"
     data-sads-text-color="surface"
     data-sads-padding="s"
     data-sads-border-radius="pill"
     data-sads-text-decoration="none">Get started</a>
  <a href="#" data-sads-element="secondary"
     data-sads-text-color="text-accent"
     data-sads-padding="s"
     data-sads-text-decoration="none">Learn more</a>
</nav>`),
		},
	}
}
