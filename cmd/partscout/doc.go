// Command partscout manages an appliance consumables catalog and enriches it
// with water filters discovered through the Amazon Product Advertising API.
package main
